package log

import (
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

// Level follows the logrus ordering: lower is more severe.
type Level uint32

const (
	ErrorLevel = Level(logrus.ErrorLevel)
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
)

var disabled bool

func init() {
	// Filtering is done per module, logrus must let everything through.
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Disable turns off all logging, warnings and errors included.
func Disable() {
	disabled = true
}

// SetOutput redirects all log entries to w.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}
