package utils

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// ServiceName is attached to every log line
const ServiceName = "auction-house"

var base = log.New()

func init() {
	base.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	base.SetOutput(os.Stdout)
	base.SetLevel(log.InfoLevel)
}

// SetLogLevel parses a level name such as "debug" or "warn" and applies it
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// SetLogOutput redirects log output, mostly to silence or capture logs in tests
func SetLogOutput(w io.Writer) {
	base.SetOutput(w)
}

func entry(fields map[string]any) *log.Entry {
	return base.WithField("service", ServiceName).WithFields(fields)
}

// Debug logs a message at debug level with optional fields
func Debug(message string, fields map[string]any) {
	entry(fields).Debug(message)
}

// Info logs a message at info level with optional fields
func Info(message string, fields map[string]any) {
	entry(fields).Info(message)
}

// Warn logs a message at warning level with optional fields
func Warn(message string, fields map[string]any) {
	entry(fields).Warn(message)
}

// Error logs a message at error level with optional fields
func Error(message string, fields map[string]any) {
	entry(fields).Error(message)
}

// Fatal logs a message at fatal level and exits the application
func Fatal(message string, fields map[string]any) {
	entry(fields).Fatal(message)
}
