package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// BorderFormatter frames error entries so they stand out in text logs
type BorderFormatter struct {
	Base log.Formatter
}

func (f *BorderFormatter) Format(entry *log.Entry) ([]byte, error) {
	message, err := f.Base.Format(entry)
	if err != nil {
		return nil, err
	}

	if entry.Level <= log.ErrorLevel {
		border := "+----------------------------------------+"
		return []byte(fmt.Sprintf("%s\n%s%s\n", border, message, border)), nil
	}

	return message, nil
}

// Init configures the standard logrus logger. Unknown levels fall back to info.
func Init(level, format string) {
	InitWithOutput(level, format, os.Stdout)
}

// InitWithOutput is Init with an explicit writer
func InitWithOutput(level, format string, out io.Writer) {
	log.SetOutput(out)

	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.Errorf("Invalid log level '%s', defaulting to INFO", level)
	} else {
		log.SetLevel(parsed)
	}

	if strings.ToLower(format) == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
		return
	}

	log.SetFormatter(&BorderFormatter{Base: &log.TextFormatter{
		DisableQuote:    true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	}})
}

// LogError logs err with the calling location and optional extra fields
func LogError(err error, functionName string, additionalFields ...map[string]interface{}) {
	if err == nil {
		return
	}

	fields := log.Fields{
		"error":    err.Error(),
		"function": functionName,
	}

	if pc, file, line, ok := runtime.Caller(1); ok {
		fields["file"] = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		fields["func"] = runtime.FuncForPC(pc).Name()
	}

	if len(additionalFields) > 0 {
		for k, v := range additionalFields[0] {
			fields[k] = v
		}
	}

	log.WithFields(fields).Error(functionName)
}

// LogAndCapture logs err and reports it to Sentry when a hub is configured
func LogAndCapture(hub *sentry.Hub, err error, context string, additionalFields ...map[string]interface{}) {
	LogError(err, context, additionalFields...)

	if hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("context", context)
			if len(additionalFields) > 0 {
				for k, v := range additionalFields[0] {
					scope.SetExtra(k, v)
				}
			}
			hub.CaptureException(err)
		})
	}
}
