// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// Check は依存先（DB、Redisなど）の疎通を確認する関数です。
type Check func(ctx context.Context) error

// Health は /healthz エンドポイントを処理するハンドラーを返します。
// checksのいずれかが失敗した場合は503を返します。checksが空なら常に正常です。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(checks map[string]Check) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		// OPTIONSは依存先を確認しない
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				slog.Warn("health check failed", "check", name, "error", err)
				results[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}

		body := gin.H{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(results) > 0 {
			body["checks"] = results
		}
		c.JSON(status, body)
	}
}
