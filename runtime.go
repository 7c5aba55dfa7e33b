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

package scratchlab

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/spec"
)

// Runtime 管理線上的 Game，以 uuid 為鍵
type Runtime struct {
	lab *Lab
	log *slog.Logger

	mu    sync.RWMutex
	games map[string]*entry
	max   int

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

type entry struct {
	game  *Game
	unsub func()
}

func newRuntime(l *Lab, maxGames int) *Runtime {
	rt := &Runtime{
		lab:   l,
		log:   slog.New(slog.DiscardHandler),
		games: make(map[string]*entry, 64),
		max:   max(0, maxGames),
		done:  make(chan struct{}),
	}
	rt.reason.Store("")
	return rt
}

// SetLogger 設定開獎等事件的 logger；nil 表示不記錄
func (rt *Runtime) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	rt.log = l
}

func (rt *Runtime) Lab() *Lab {
	return rt.lab
}

// Open 開一張新卡並回傳其 id；滿載時回傳 ErrFull
func (rt *Runtime) Open(ctx context.Context, cid spec.CID, geom Geometry) (string, *Game, error) {
	if err := rt.alive(ctx); err != nil {
		return "", nil, err
	}
	g, err := rt.lab.NewGame(cid, geom)
	if err != nil {
		return "", nil, err
	}
	return rt.add(g)
}

// OpenWithSeed 同 Open，但由呼叫端指定 seed
func (rt *Runtime) OpenWithSeed(ctx context.Context, cid spec.CID, seed int64, geom Geometry) (string, *Game, error) {
	if err := rt.alive(ctx); err != nil {
		return "", nil, err
	}
	g, err := rt.lab.NewGameWithSeed(cid, seed, geom)
	if err != nil {
		return "", nil, err
	}
	return rt.add(g)
}

func (rt *Runtime) add(g *Game) (string, *Game, error) {
	id := uuid.NewString()
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed.Load() {
		return "", nil, errs.Wrap(errs.ErrClosed, "runtime closed: "+rt.ClosedReason())
	}
	if rt.max > 0 && len(rt.games) >= rt.max {
		return "", nil, errs.WrapWithExtra(errs.ErrFull, "too many games", "max="+strconv.Itoa(rt.max))
	}
	log := rt.log.With(slog.String("game", id), slog.Uint64("card_id", uint64(g.cs.CardID)))
	var logged atomic.Int64 // 最後一次記錄開獎的局數
	unsub := g.Subscribe(func(v View) {
		if !v.Revealed {
			return
		}
		if last := logged.Load(); int64(v.Round) > last && logged.CompareAndSwap(last, int64(v.Round)) {
			log.Info("card revealed",
				slog.Int("round", v.Round),
				slog.Int("percent", v.Percent),
				slog.Int64("amount", v.PrizeAmount),
				slog.Int("total_plays", v.Stats.TotalPlays),
				slog.Int64("total_winnings", v.Stats.TotalWinnings),
			)
		}
	})
	rt.games[id] = &entry{game: g, unsub: unsub}
	log.Debug("game opened", slog.Int64("seed", g.InitSeed()))
	return id, g, nil
}

// Get 依 id 取得 Game
func (rt *Runtime) Get(id string) (*Game, error) {
	if rt.closed.Load() {
		return nil, errs.Wrap(errs.ErrClosed, "runtime closed: "+rt.ClosedReason())
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, errs.WrapWithExtra(errs.ErrNotFound, "invalid game id", id)
	}
	rt.mu.RLock()
	e, ok := rt.games[id]
	rt.mu.RUnlock()
	if !ok {
		return nil, errs.WrapWithExtra(errs.ErrNotFound, "game not found", id)
	}
	return e.game, nil
}

// Drop 丟棄 Game（累積統計隨之消失）
func (rt *Runtime) Drop(id string) error {
	rt.mu.Lock()
	e, ok := rt.games[id]
	if ok {
		delete(rt.games, id)
	}
	rt.mu.Unlock()
	if !ok {
		return errs.WrapWithExtra(errs.ErrNotFound, "game not found", id)
	}
	e.unsub()
	return nil
}

func (rt *Runtime) Len() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.games)
}

// Close 關閉 runtime 並丟棄所有 Game，可重複呼叫
func (rt *Runtime) Close() {
	rt.CloseWithReason("closed")
}

// CloseWithReason 關閉並記錄原因（只寫入一次）
func (rt *Runtime) CloseWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.mu.Lock()
		rt.closed.Store(true)
		for id, e := range rt.games {
			e.unsub()
			delete(rt.games, id)
		}
		rt.mu.Unlock()
		close(rt.done)
	})
}

func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (rt *Runtime) alive(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "open canceled/timeout")
	case <-rt.done:
		return errs.Wrap(errs.ErrClosed, "runtime closed: "+rt.ClosedReason())
	default:
		return nil
	}
}
