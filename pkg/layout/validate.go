package layout

import (
	"fmt"

	"github.com/anggasct/crossroads/pkg/utils"
)

// Validate checks every entry of the table and reports all issues at once
func (t Table) Validate() error {
	ec := utils.NewErrorCollector()
	for _, k := range Kinds {
		g, ok := t[k]
		if !ok {
			continue
		}
		if g == nil {
			ec.Add(utils.NewGeometryError("nil geometry entry", k.String(), ""))
			continue
		}
		ec.Add(g.Validate())
	}
	for k := range t {
		if _, known := kindNames[k]; !known {
			ec.Add(utils.NewUnknownKindError(k.String()))
		}
	}
	return ec.Err()
}

// Validate checks a single kind's geometry
func (g *KindGeometry) Validate() error {
	ec := utils.NewErrorCollector()
	component := g.Kind.String()

	if g.Speed <= 0 {
		ec.Add(utils.NewGeometryError("speed must be positive", component, "speed").
			WithDetail("speed", g.Speed))
	}
	if g.Size.Width <= 0 || g.Size.Height <= 0 {
		ec.Add(utils.NewGeometryError("size must be positive", component, "size"))
	}

	for _, h := range Headings {
		approach, ok := g.Approaches[h]
		if !ok {
			ec.Add(utils.NewGeometryError("missing approach", component, "approaches."+h.String()))
			continue
		}
		for i, zone := range approach.StopZones {
			field := fmt.Sprintf("approaches.%s.stop_zones[%d]", h, i)
			ec.Add(checkInterval(zone, g.Speed, component, field))
		}

		window, ok := g.TurnWindows[h]
		if !ok {
			ec.Add(utils.NewGeometryError("missing turn window", component, "turn_windows."+h.String()))
			continue
		}
		ec.Add(checkInterval(window, g.Speed, component, "turn_windows."+h.String()))
	}

	return ec.Err()
}

// checkInterval rejects inverted intervals and intervals an agent could step
// over in a single tick.
func checkInterval(i Interval, speed float64, component, field string) error {
	if i.Min >= i.Max {
		return utils.NewGeometryError("interval min must be below max", component, field).
			WithDetail("min", i.Min).
			WithDetail("max", i.Max)
	}
	if speed > 0 && i.Width() <= speed {
		return utils.NewGeometryError("interval narrower than one speed step", component, field).
			WithDetail("width", i.Width()).
			WithDetail("speed", speed)
	}
	return nil
}
