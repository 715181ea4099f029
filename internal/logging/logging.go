package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup 配置全局 slog：生产环境输出 JSON，其余环境使用带颜色的 tint 控制台格式。
func Setup(production bool, level string) *slog.Logger {
	logger := New(os.Stderr, production, level)
	slog.SetDefault(logger)
	return logger
}

// New 构造 logger 但不修改全局默认值，便于测试。
func New(w io.Writer, production bool, level string) *slog.Logger {
	lvl := ParseLevel(level)
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	}))
}

// ParseLevel 解析 LOG_LEVEL，无法识别时回退到 INFO。
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
