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

// Package logger 組裝 server 使用的 slog.Logger。
//
// 卡片引擎本身（根套件、sdk、spec、catalog）不寫 log；只有 server 與 Runtime
// 透過注入的 *slog.Logger 輸出。這裡提供依模式建立 handler，以及把任意 handler
// 包成非阻塞的 AsyncHandler。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/scratchlab/errs"
)

type LogMode uint8

const (
	ModeDev     LogMode = iota // text, stderr, debug
	ModeProd                   // json, stdout, info
	ModeSilence                // discard
)

var modeNames = map[string]LogMode{
	"dev":     ModeDev,
	"prod":    ModeProd,
	"silence": ModeSilence,
}

// ParseMode 將設定字串（dev / prod / silence，大小寫不拘）轉成 LogMode
func ParseMode(s string) (LogMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeDev, nil
	}
	m, ok := modeNames[s]
	if !ok {
		return ModeDev, errs.NewWithExtra(errs.Warn, "unknown log mode", s)
	}
	return m, nil
}

func (m LogMode) String() string {
	for k, v := range modeNames {
		if v == m {
			return k
		}
	}
	return "unknown"
}

// NewDefaultLogger 同步 logger
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(handlerFor(mode, nil))
}

// NewAsync 以模式預設 handler 為底，包上 AsyncHandler。
// 呼叫端持有 *AsyncHandler 以便在關閉服務時 Close() 排空佇列。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(handlerFor(mode, nil), buf)
	return slog.New(ah), ah
}

// AsyncHandler 把 Handle 轉成 enqueue，由單一背景 goroutine 寫出。
// 佇列滿或已關閉時丟棄該筆並計數，不把 I/O 延遲帶回請求路徑。
type AsyncHandler struct {
	next slog.Handler
	q    *queue
}

type queue struct {
	ch      chan pending
	stop    chan struct{}
	once    sync.Once
	done    sync.WaitGroup
	dropped atomic.Uint64
}

type pending struct {
	ctx context.Context
	h   slog.Handler
	rec slog.Record
}

func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = handlerFor(ModeDev, nil)
	}
	if buf <= 0 {
		buf = 1024
	}
	q := &queue{ch: make(chan pending, buf), stop: make(chan struct{})}
	q.done.Add(1)
	go q.run()
	return &AsyncHandler{next: next, q: q}
}

func (q *queue) run() {
	defer q.done.Done()
	for {
		select {
		case p := <-q.ch:
			_ = p.h.Handle(p.ctx, p.rec)
		case <-q.stop:
			for {
				select {
				case p := <-q.ch:
					_ = p.h.Handle(p.ctx, p.rec)
				default:
					return
				}
			}
		}
	}
}

func (h *AsyncHandler) Ready() bool {
	return h != nil && h.q != nil && h.next != nil
}

// Dropped 因佇列滿或關閉後寫入而丟棄的筆數
func (h *AsyncHandler) Dropped() uint64 {
	if !h.Ready() {
		return 0
	}
	return h.q.dropped.Load()
}

// Close 停止接收並排空佇列；可重複呼叫
func (h *AsyncHandler) Close() {
	if !h.Ready() {
		return
	}
	h.q.once.Do(func() { close(h.q.stop) })
	h.q.done.Wait()
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Ready() {
		return nil
	}
	select {
	case <-h.q.stop:
		h.q.dropped.Add(1)
		return nil
	default:
	}
	// Record 內的 attrs 可能被呼叫端重用，跨 goroutine 前先 Clone
	select {
	case h.q.ch <- pending{ctx: ctx, h: h.next, rec: r.Clone()}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}

// handlerFor 依模式建立底層 handler；w 為 nil 時使用模式預設輸出
func handlerFor(mode LogMode, w io.Writer) slog.Handler {
	switch mode {
	case ModeProd:
		if w == nil {
			w = os.Stdout
		}
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		if w == nil {
			w = os.Stderr
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// NewWriterLogger 將指定模式的輸出導向 w，測試或嵌入時使用
func NewWriterLogger(w io.Writer, mode LogMode) *slog.Logger {
	return slog.New(handlerFor(mode, w))
}
