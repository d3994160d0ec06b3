package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. format is "json" or anything else for
// text; out defaults to stderr so command output on stdout stays clean.
func New(level logrus.Level, format string, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Command returns an entry tagged with the subcommand and workspace.
func Command(logger logrus.FieldLogger, command, workspace string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"command":   command,
		"workspace": workspace,
	})
}
