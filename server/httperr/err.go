// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httperr 把 errs 的錯誤分級映射為 HTTP 回應。
// 映射放在 server 邊界層，errs 本身不依賴 net/http。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/scratchlab/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 先比對哨兵錯誤與 context，再看分級：
//   - errs.ErrNotFound → 404
//   - errs.ErrFull     → 429
//   - errs.ErrClosed   → 503
//   - ctx deadline     → 504；ctx cancel → 408
//   - errs.Warn        → 400；其餘 → 500
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrFull):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	if errs.Level(err) == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type body struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Errs 以 JSON 寫回錯誤。
// 4xx 回最外層 *E 的 Brief；5xx 只回狀態文字，細節留給 log。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body{Error: publicMessage(err, status), Status: status})
}

func publicMessage(err error, status int) string {
	if status >= 500 {
		return http.StatusText(status)
	}
	if e, ok := errs.AsErr(err); ok {
		return e.Brief()
	}
	return err.Error()
}

// Log 只記錄值得關注的錯誤：408/429/503 記 warn，5xx 記 error，其餘交給 access log
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	switch status := StatusCode(err); {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status == http.StatusServiceUnavailable:
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	case status >= 500:
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	}
}
