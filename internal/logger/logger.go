package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Setup initializes Logrus to write to stdout and a rotating file. The
// returned writer is shared with the HTTP access log.
func Setup(path, level string) io.Writer {
	// 1) Lumberjack for file rotation
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 7,  // keep up to 7 old files
		MaxAge:     7,  // days
		Compress:   true,
	}
	out := io.MultiWriter(os.Stdout, rotator)

	// 2) Configure Logrus to write to that file
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.DebugLevel
	}
	logrus.SetLevel(lvl)

	return out
}

// GormLogger routes GORM's slow-query and error output through Logrus.
func GormLogger() gormlogger.Interface {
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
