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
	"fmt"
	"sync"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/sampler"
	"github.com/zintix-labs/scratchlab/sdk/scratch"
	"github.com/zintix-labs/scratchlab/spec"
)

// State 一張卡在單一局內的狀態
type State uint8

const (
	StateIdle       State = iota // 尚未按下或手勢已結束
	StateScratching              // 手勢進行中
	StateRevealed                // 已開獎，直到 Restart
)

var stateNames = [...]string{"idle", "scratching", "revealed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// Geometry 刮層在頁面上的位置與尺寸。
// Left/Top 是外框左上角的 client 座標；Width/Height 是繪圖座標尺寸；DPR 為裝置像素比。
type Geometry struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	DPR    float64 `json:"dpr"`
}

// PointerEvent 指標事件（client 座標）
type PointerEvent struct {
	PointerID int
	ClientX   float64
	ClientY   float64
}

// Stats 累積統計，跟著 Game 活到被丟棄為止
type Stats struct {
	TotalPlays    int   `json:"total_plays"`
	TotalWinnings int64 `json:"total_winnings"`
}

// View 某一時刻的呈現狀態快照
type View struct {
	CardID       spec.CID
	CardName     string
	Round        int // 第幾局，從 1 起算
	State        State
	Coin         int
	Percent      int
	Revealed     bool
	HasScratched bool
	PrizeIndex   int
	PrizeAmount  int64
	PrizeMessage string
	Width        int
	Height       int
	Stats        Stats
}

// Game 一位玩家的一張刮刮卡。
//
// 每局開始時抽一次獎，之後到 Restart 前都不會改變；開獎在一局內只會發生一次。
// 所有操作以 mutex 串行化，可被多個 goroutine 共用；訂閱者在解鎖後才被呼叫。
type Game struct {
	mu       sync.Mutex
	cs       *spec.CardSetting
	walk     *sampler.Walk
	core     *core.Core
	initseed int64
	geom     Geometry
	look     scratch.Look

	// 單局狀態，Restart 時整組換新
	surface      *scratch.Surface
	prize        int
	percent      int
	revealed     bool
	hasScratched bool
	drawing      bool
	pointer      int
	moves        int
	round        int

	coin  int
	stats Stats

	subs    map[int]func(View)
	nextSub int
}

func newGame(cs *spec.CardSetting, cf core.PRNGFactory, seed int64, geom Geometry) (*Game, error) {
	if cs == nil {
		return nil, errs.NewFatal("card setting required")
	}
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if geom.Width <= 0 {
		geom.Width = cs.Width
	}
	if geom.Height <= 0 {
		geom.Height = cs.Height
	}
	if geom.DPR <= 0 {
		geom.DPR = 1
	}
	if a := scratch.DeviceArea(geom.Width, geom.Height, geom.DPR); a > scratch.MaxDevicePixels {
		return nil, errs.Warnf("drawable too large: %.0f device pixels > %d", a, scratch.MaxDevicePixels)
	}
	g := &Game{
		cs:       cs,
		walk:     sampler.BuildWalk(cs.Weights()),
		core:     core.New(cf.New(seed)),
		initseed: seed,
		geom:     geom,
		look:     scratch.LookFromSetting(cs.Overlay),
		coin:     cs.DefaultCoin,
		subs:     map[int]func(View){},
	}
	g.initCard()
	return g, nil
}

// initCard 抽獎並鋪上新的刮層
func (g *Game) initCard() {
	g.prize = g.walk.Pick(g.core)
	g.surface = scratch.NewSurface(g.geom.Width, g.geom.Height, g.geom.DPR, g.cs.SampleStride, g.look)
	g.percent = 0
	g.revealed = false
	g.hasScratched = false
	g.drawing = false
	g.moves = 0
	g.round++
}

// SelectCoin 換筆刷；index 超出範圍回傳 Warn
func (g *Game) SelectCoin(index int) error {
	g.mu.Lock()
	if index < 0 || index >= len(g.cs.Coins) {
		g.mu.Unlock()
		return errs.Warnf("coin index out of range: %d", index)
	}
	g.coin = index
	v := g.view()
	g.mu.Unlock()
	g.notify(v)
	return nil
}

// PointerDown 開始手勢並擷取該指標；已開獎時忽略
func (g *Game) PointerDown(ev PointerEvent) {
	g.mu.Lock()
	if g.revealed {
		g.mu.Unlock()
		return
	}
	g.drawing = true
	g.pointer = ev.PointerID
	g.scratch(ev)
	v := g.view()
	g.mu.Unlock()
	g.notify(v)
}

// PointerMove 只處理被擷取的指標；手勢外或已開獎時忽略
func (g *Game) PointerMove(ev PointerEvent) {
	g.mu.Lock()
	if !g.drawing || g.revealed || ev.PointerID != g.pointer {
		g.mu.Unlock()
		return
	}
	g.scratch(ev)
	v := g.view()
	g.mu.Unlock()
	g.notify(v)
}

// PointerUp 結束手勢並重算一次覆蓋率
func (g *Game) PointerUp(ev PointerEvent) {
	g.mu.Lock()
	if !g.drawing || ev.PointerID != g.pointer {
		g.mu.Unlock()
		return
	}
	g.drawing = false
	g.updatePercent()
	v := g.view()
	g.mu.Unlock()
	g.notify(v)
}

// Reveal 開獎；同一局只會計一次
func (g *Game) Reveal() {
	g.mu.Lock()
	changed := g.reveal()
	v := g.view()
	g.mu.Unlock()
	if changed {
		g.notify(v)
	}
}

// Restart 重新抽獎、換新刮層；累積統計與筆刷保留
func (g *Game) Restart() {
	g.mu.Lock()
	g.initCard()
	v := g.view()
	g.mu.Unlock()
	g.notify(v)
}

// SetOrigin 更新外框左上角的 client 座標（頁面捲動或版面位移時）
func (g *Game) SetOrigin(left, top float64) {
	g.mu.Lock()
	g.geom.Left = left
	g.geom.Top = top
	g.mu.Unlock()
}

func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view()
}

func (g *Game) Revealed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revealed
}

func (g *Game) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

func (g *Game) Geometry() Geometry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.geom
}

func (g *Game) Setting() *spec.CardSetting {
	return g.cs
}

// InitSeed 出生 seed；完整重現請用 SnapshotCore / RestoreCore
func (g *Game) InitSeed() int64 {
	return g.initseed
}

func (g *Game) SnapshotCore() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.core.Snapshot()
}

func (g *Game) RestoreCore(src []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.core.Restore(src)
}

// WithSurface 在鎖內讀取刮層；fn 不可保留 s
func (g *Game) WithSurface(fn func(s *scratch.Surface)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.surface)
}

// Subscribe 註冊狀態變更通知，回傳取消函數
func (g *Game) Subscribe(fn func(View)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
		})
	}
}

// scratch 在 (clientX-Left, clientY-Top) 擦一個筆刷圓；每 SampleEvery 次重算覆蓋率
func (g *Game) scratch(ev PointerEvent) {
	x := ev.ClientX - g.geom.Left
	y := ev.ClientY - g.geom.Top
	g.surface.Erase(x, y, g.cs.Coins[g.coin].Radius)
	g.hasScratched = true
	g.moves++
	if g.moves%g.cs.SampleEvery == 0 {
		g.updatePercent()
	}
}

func (g *Game) updatePercent() {
	raw := g.surface.Coverage()
	g.percent = scratch.Percent(raw)
	if raw >= g.cs.RevealThreshold {
		g.reveal()
	}
}

func (g *Game) reveal() bool {
	if g.revealed {
		return false
	}
	g.revealed = true
	g.stats.TotalPlays++
	g.stats.TotalWinnings += g.cs.Prizes[g.prize].Amount
	return true
}

func (g *Game) state() State {
	switch {
	case g.revealed:
		return StateRevealed
	case g.drawing:
		return StateScratching
	default:
		return StateIdle
	}
}

func (g *Game) view() View {
	p := g.cs.Prizes[g.prize]
	return View{
		CardID:       g.cs.CardID,
		CardName:     g.cs.CardName,
		Round:        g.round,
		State:        g.state(),
		Coin:         g.coin,
		Percent:      g.percent,
		Revealed:     g.revealed,
		HasScratched: g.hasScratched,
		PrizeIndex:   g.prize,
		PrizeAmount:  p.Amount,
		PrizeMessage: p.Message,
		Width:        g.geom.Width,
		Height:       g.geom.Height,
		Stats:        g.stats,
	}
}

func (g *Game) notify(v View) {
	g.mu.Lock()
	if len(g.subs) == 0 {
		g.mu.Unlock()
		return
	}
	fns := make([]func(View), 0, len(g.subs))
	for _, fn := range g.subs {
		fns = append(fns, fn)
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}
