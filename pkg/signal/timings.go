package signal

import (
	"time"

	"github.com/anggasct/crossroads/pkg/utils"
)

// Timings holds the configured duration of every phase
type Timings struct {
	RedHorizontal               time.Duration `yaml:"red_horizontal"`
	GreenHorizontal             time.Duration `yaml:"green_horizontal"`
	OrangeHorizontal            time.Duration `yaml:"orange_horizontal"`
	RedHorizontalOrangeVertical time.Duration `yaml:"red_horizontal_orange_vertical"`
}

// DefaultTimings returns the 30/5/5/30 second cycle
func DefaultTimings() Timings {
	return Timings{
		RedHorizontal:               30 * time.Second,
		GreenHorizontal:             5 * time.Second,
		OrangeHorizontal:            5 * time.Second,
		RedHorizontalOrangeVertical: 30 * time.Second,
	}
}

// Duration returns the configured duration of phase p
func (t Timings) Duration(p Phase) time.Duration {
	switch p {
	case RedHorizontal:
		return t.RedHorizontal
	case GreenHorizontal:
		return t.GreenHorizontal
	case OrangeHorizontal:
		return t.OrangeHorizontal
	case RedHorizontalOrangeVertical:
		return t.RedHorizontalOrangeVertical
	default:
		return 0
	}
}

// Cycle returns the length of one full cycle
func (t Timings) Cycle() time.Duration {
	var total time.Duration
	for _, p := range Phases {
		total += t.Duration(p)
	}
	return total
}

// Scale divides every duration by factor. Factors <= 0 leave t unchanged.
func (t Timings) Scale(factor float64) Timings {
	if factor <= 0 {
		return t
	}
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) / factor)
	}
	return Timings{
		RedHorizontal:               scale(t.RedHorizontal),
		GreenHorizontal:             scale(t.GreenHorizontal),
		OrangeHorizontal:            scale(t.OrangeHorizontal),
		RedHorizontalOrangeVertical: scale(t.RedHorizontalOrangeVertical),
	}
}

// Validate reports every phase whose duration is not positive
func (t Timings) Validate() error {
	ec := utils.NewErrorCollector()
	for _, p := range Phases {
		if d := t.Duration(p); d <= 0 {
			ec.Add(utils.NewTimingError("phase duration must be positive", p.String()).
				WithDetail("duration", d))
		}
	}
	return ec.Err()
}
