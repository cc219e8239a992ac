package util

import (
	"log/slog"
	"time"
)

// Trace 计时辅助，defer util.Trace("xxx")() 即可
func Trace(msg string) func() {
	start := time.Now()
	return func() {
		slog.Info(msg, "took", time.Since(start))
	}
}
