package zfm

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts a logrus logger to the Logger interface.
//
// Example:
//
//	log := logrus.New()
//	log.SetLevel(logrus.DebugLevel)
//	sensor := zfm.New(port, zfm.WithLogger(&zfm.LogrusLogger{Logger: log}))
type LogrusLogger struct {
	Logger logrus.FieldLogger
}

func (l *LogrusLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.WithFields(logrusFields(keysAndValues)).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.WithFields(logrusFields(keysAndValues)).Info(msg)
}

func (l *LogrusLogger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.WithFields(logrusFields(keysAndValues)).Error(msg)
}

// logrusFields converts alternating key-value pairs to logrus fields.
// A trailing key without a value is dropped.
func logrusFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
