package observers

import "github.com/sirupsen/logrus"

// NewDefaultLoggingObserver creates a logging observer on the standard logger at info level
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(logrus.StandardLogger(), logrus.InfoLevel)
}
