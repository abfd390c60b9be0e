package sv92

import "github.com/sirupsen/logrus"

var _lg = logrus.New()

// SetLogger replaces the package-level logger used by the publisher,
// subscriber, and codec warning paths.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		_lg = l
	}
}

// SetLevel is a convenience wrapper over SetLogger's logrus.Logger.SetLevel.
func SetLevel(level logrus.Level) {
	_lg.SetLevel(level)
}
