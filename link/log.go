package link

import "github.com/sirupsen/logrus"

var _lg = logrus.New()

// SetLogger replaces the package-level logger used for send/receive
// diagnostics, independent of the root sv92 package's logger.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		_lg = l
	}
}
