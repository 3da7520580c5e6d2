/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
// Package logging adapts charmbracelet/log to the Logger interface the
// resolver and graph walker log through.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Logger writes superjoin's warnings and debug messages.
type Logger struct {
	log *log.Logger
}

// New creates a Logger writing to w. Debug messages are shown only when
// verbose is set.
func New(w io.Writer, verbose bool) *Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix: "superjoin",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return &Logger{log: l}
}

// Warning implements resolve.Logger.
func (l *Logger) Warning(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

// Debug implements resolve.Logger.
func (l *Logger) Debug(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

// Info logs progress the user asked for, like the written outfile.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.log.Info(msg, keyvals...)
}

// Error logs a failure with structured context.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.log.Error(msg, keyvals...)
}
