package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS 讓瀏覽器端的刮刮卡元件跨來源呼叫 API。
// origins 為空時允許任意來源（不帶 credentials）。
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
