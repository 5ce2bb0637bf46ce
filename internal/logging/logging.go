/*
battery-reporter - Battery telemetry sampling and reporting
Copyright (C) 2024, The Cacophony Project

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package logging provides the leveled logger shared by the battery-reporter tools.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogArgs can be embedded in a go-arg Args struct to add the log flags.
type LogArgs struct {
	LogLevel   string `arg:"-l, --log-level" default:"info" help:"Set the logging level (debug, info, warn, error)"`
	Timestamps bool   `arg:"-t, --timestamps" help:"include timestamps in log output"`
}

type Logger struct {
	*logrus.Logger
}

// NewLogger returns a logger writing to stderr at the given level.
// An unrecognised level falls back to info.
func NewLogger(level string) *Logger {
	return newLogger(level, false, os.Stderr)
}

// NewLoggerFromArgs builds a logger from the embedded LogArgs.
func NewLoggerFromArgs(args LogArgs) *Logger {
	return newLogger(args.LogLevel, args.Timestamps, os.Stderr)
}

func newLogger(level string, timestamps bool, out io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !timestamps,
		FullTimestamp:    timestamps,
	})

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
		l.SetLevel(parsed)
		l.Warnf("Unknown log level '%s', using info", level)
		return &Logger{l}
	}
	l.SetLevel(parsed)
	return &Logger{l}
}
