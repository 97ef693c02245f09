package logger

import (
	"github.com/sirupsen/logrus"
)

// Log это общий логгер приложения. Заполняется в Init при старте.
var Log *logrus.Logger

// Init настраивает общий логгер. В production пишем JSON для сборщиков
// логов, в остальных окружениях человекочитаемый текст. Неизвестный
// уровень тихо заменяется на info.
func Init(level, env string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if env == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
