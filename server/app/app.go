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

// Package app 管理長期運行元件的啟動與優雅關閉。
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const DefaultGrace = 5 * time.Second

// App 並行啟動所有 Component；收到終止信號、ctx 結束或任一元件返回時，
// 依註冊順序 Shutdown，再依反序執行 OnStop 掛勾（例如關閉 Runtime、排空 log）。
type App struct {
	comps []Component
	stops []func()
	grace time.Duration
	log   *slog.Logger
}

func New() *App {
	return &App{grace: DefaultGrace, log: slog.New(slog.DiscardHandler)}
}

func NewWith(comps ...Component) *App {
	a := New()
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

func (a *App) Register(c Component) {
	if c != nil {
		a.comps = append(a.comps, c)
	}
}

// OnStop 在所有元件關閉後執行，後註冊的先執行
func (a *App) OnStop(fn func()) {
	if fn != nil {
		a.stops = append(a.stops, fn)
	}
}

func (a *App) SetGrace(d time.Duration) {
	if d > 0 {
		a.grace = d
	}
}

func (a *App) SetLogger(l *slog.Logger) {
	if l != nil {
		a.log = l
	}
}

// Run 阻塞到 SIGINT/SIGTERM 或任一元件返回
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext 阻塞到 ctx 結束或任一元件返回。
// ctx 結束視為正常停止回傳 nil；元件先返回則回傳其錯誤。
func (a *App) RunContext(ctx context.Context) error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	var err error
	if len(a.comps) == 0 {
		<-ctx.Done()
	} else {
		select {
		case <-ctx.Done():
		case err = <-errCh:
			if err == nil {
				err = errors.New("component stopped")
			}
		}
	}
	a.shutdown()
	return err
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.grace)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			a.log.Error("shutdown failed", slog.Any("err", err))
		}
	}
	for i := len(a.stops) - 1; i >= 0; i-- {
		a.stops[i]()
	}
}
