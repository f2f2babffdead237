package yuv

import (
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger sets the logger used for diagnostics (rounding, unsupported formats, inference conflicts).
// Passing nil restores the logrus standard logger. It should be called before any decoding starts.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}

	logger = l
}
