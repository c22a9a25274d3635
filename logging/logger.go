package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = logrus.New()
var once sync.Once

// LineFormatter renders one log entry per line:
// Date, Time, Source, Level, Message, then any fields.
type LineFormatter struct {
	SystemName string
}

func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	b.WriteString(fmt.Sprintf("Date: %s, Time: %s, ", entry.Time.Format("2006-01-02"), entry.Time.Format("15:04:05")))
	b.WriteString(fmt.Sprintf("Source: %s, ", f.SystemName))
	b.WriteString(fmt.Sprintf("Level: %s, ", strings.ToUpper(entry.Level.String())))
	b.WriteString(fmt.Sprintf("Message: %s", entry.Message))

	for k, v := range entry.Data {
		b.WriteString(fmt.Sprintf(", %s: %v", k, v))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// InitLogger configures the shared logger: rotated file plus stdout.
func InitLogger(systemName, logFile string) {
	once.Do(func() {
		Logger.SetFormatter(&LineFormatter{SystemName: systemName})
		Logger.SetLevel(logrus.InfoLevel)

		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}

		Logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	})
}
