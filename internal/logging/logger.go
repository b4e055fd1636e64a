package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Init はグローバルロガーを初期化します。
// level は debug, info, warn, error のいずれかで、それ以外は info として扱います。
// pkg 配下が使う slog の出力も同じ zerolog に流します。
func Init(level string) zerolog.Logger {
	return InitWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr})
}

// InitWithWriter は出力先を指定して Init と同じ初期化を行います。
func InitWithWriter(level string, w io.Writer) zerolog.Logger {
	lvl := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(w).With().Timestamp().Logger()
	slog.SetDefault(slog.New(NewSlogHandler(log.Logger, lvl)))
	return log.Logger
}

// NewSlogHandler は logger へ書き出す slog.Handler を返します。
func NewSlogHandler(logger zerolog.Logger, level zerolog.Level) slog.Handler {
	return slogzerolog.Option{Level: toSlogLevel(level), Logger: &logger}.NewZerologHandler()
}

// ParseLevel は文字列を zerolog のレベルに変換します。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func toSlogLevel(level zerolog.Level) slog.Level {
	switch {
	case level <= zerolog.DebugLevel:
		return slog.LevelDebug
	case level == zerolog.InfoLevel:
		return slog.LevelInfo
	case level == zerolog.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
