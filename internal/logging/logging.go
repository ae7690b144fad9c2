package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. An unknown level falls back
// to info with a warning; format "json" selects the JSON formatter, anything
// else the text formatter. A nil out keeps the current output.
func Setup(level, format string, out io.Writer) {
	if out != nil {
		logrus.SetOutput(out)
	}

	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
