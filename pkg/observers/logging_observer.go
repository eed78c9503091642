// Package observers provides observers for monitoring the signal cycle
package observers

import (
	"github.com/sirupsen/logrus"

	"github.com/anggasct/crossroads/pkg/signal"
)

// LoggingObserver logs signal events through logrus
type LoggingObserver struct {
	signal.BaseObserver
	logger logrus.FieldLogger
	level  logrus.Level
}

// NewLoggingObserver creates a logging observer writing phase events at level
func NewLoggingObserver(logger logrus.FieldLogger, level logrus.Level) *LoggingObserver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoggingObserver{
		logger: logger.WithField("component", "signal"),
		level:  level,
	}
}

func (o *LoggingObserver) log(fields logrus.Fields, msg string) {
	entry := o.logger.WithFields(fields)
	switch o.level {
	case logrus.TraceLevel, logrus.DebugLevel:
		entry.Debug(msg)
	case logrus.WarnLevel:
		entry.Warn(msg)
	default:
		entry.Info(msg)
	}
}

// OnTransition logs phase changes
func (o *LoggingObserver) OnTransition(t signal.Transition) {
	o.log(logrus.Fields{
		"from":     t.From.String(),
		"to":       t.To.String(),
		"sequence": t.Sequence,
		"elapsed":  t.Elapsed,
		"duration": t.Duration,
	}, "phase transition")
}

// OnPhaseEnter logs the lamps shown by the new phase
func (o *LoggingObserver) OnPhaseEnter(state signal.State) {
	lamps := state.Lamps()
	o.logger.WithFields(logrus.Fields{
		"phase":      state.Phase.String(),
		"horizontal": lamps.Horizontal.String(),
		"vertical":   lamps.Vertical.String(),
	}).Debug("phase entered")
}

// OnError logs errors
func (o *LoggingObserver) OnError(err error) {
	o.logger.WithError(err).Error("signal observer error")
}

// OnClockStarted logs the clock taking over the controller
func (o *LoggingObserver) OnClockStarted(state signal.State) {
	o.logger.WithField("phase", state.Phase.String()).Info("phase clock started")
}

// OnClockStopped logs the clock being joined
func (o *LoggingObserver) OnClockStopped(state signal.State) {
	o.logger.WithFields(logrus.Fields{
		"phase":    state.Phase.String(),
		"sequence": state.Sequence,
	}).Info("phase clock stopped")
}
