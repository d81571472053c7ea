package bayeslite

import (
	"io"

	"github.com/sirupsen/logrus"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// StatementLogField is the log field holding the kind of statement being
// compiled.
const StatementLogField = "statement"

// NewLogger creates the logger described by the configuration, writing to w.
func (c Config) NewLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	if c.LogFormat == logFormatJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	if c.Debug || c.Verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}
