// Package logging wires the console and file log outputs.
package logging

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"
)

const logFileName = "dbfz-raid.log"

// Setup sends log output to the console and, when the log file next to the
// tool can be opened, mirrors it there in plain text for bug reports. The
// returned func flushes and closes the file.
func Setup(verbose bool) func() {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	handlers := []log.Handler{cli.New(os.Stderr)}
	closer := func() {}

	if f, err := os.OpenFile(logPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		handlers = append(handlers, text.New(f))
		closer = func() { f.Close() }
	}
	log.SetHandler(multi.New(handlers...))
	return closer
}

func logPath() string {
	exe, err := os.Executable()
	if err != nil {
		return logFileName
	}
	return filepath.Join(filepath.Dir(exe), logFileName)
}
