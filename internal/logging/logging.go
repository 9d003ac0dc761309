// Package logging sets up the process-wide slog logger.
package logging

import (
	"io"
	log "log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

var levels = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Level maps a level name to a slog level, info when unknown.
func Level(name string) log.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l
	}
	return log.LevelInfo
}

// Setup installs a colored console logger and, when file is set, a JSON copy
// rotated by size. The returned closer flushes the file.
func Setup(level, file string) io.Closer {
	return setup(os.Stderr, level, file)
}

func setup(console io.Writer, level, file string) io.Closer {
	lvl := Level(level)

	handler := log.Handler(tint.NewHandler(console, &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05.000",
	}))

	var closer io.Closer = nopCloser{}
	if file != "" {
		rot := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		closer = rot
		handler = slogmulti.Fanout(
			handler,
			log.NewJSONHandler(rot, &log.HandlerOptions{Level: lvl}),
		)
	}

	log.SetDefault(log.New(handler))
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
