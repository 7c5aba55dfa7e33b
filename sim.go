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
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/recorder"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/sampler"
	"github.com/zintix-labs/scratchlab/spec"
	"github.com/zintix-labs/scratchlab/stats"
)

const (
	capPrepare int = 64

	// 試刮時一筆劃的移動次數，與單張卡的步數上限
	strokeMoves    int = 24
	maxCardMoves   int = 200_000
	scratchPointer int = 1
)

// Simulator 大量抽獎或試刮，驗證獎項分佈與開獎流程
type Simulator struct {
	CardName  string
	CardID    spec.CID
	cs        *spec.CardSetting
	cf        core.PRNGFactory
	walk      *sampler.Walk
	initSeed  int64
	seedmaker *seedMaker
	cBuf      []*core.Core             // 併發抽獎核心
	rBuf      []*recorder.DrawRecorder // 併發抽獎紀錄員
}

func newSimulator(cs *spec.CardSetting, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	if cs == nil || cf == nil {
		return nil, errs.NewFatal("card setting and prng factory required")
	}
	s := &Simulator{
		CardName:  cs.CardName,
		CardID:    cs.CardID,
		cs:        cs,
		cf:        cf,
		walk:      sampler.BuildWalk(cs.Weights()),
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		cBuf:      make([]*core.Core, 1, capPrepare),
		rBuf:      make([]*recorder.DrawRecorder, 0, capPrepare),
	}
	s.cBuf[0] = core.New(cf.New(seed))
	return s, nil
}

// Sim 單線模擬：以初始 seed 的核心連續抽 rounds 次
func (s *Simulator) Sim(rounds int, showpb bool) (*stats.DrawReport, time.Duration, error) {
	defer s.reset()
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if err := s.prepare(1); err != nil {
		return nil, 0, err
	}
	c, r := s.cBuf[0], s.rBuf[0]

	bar := newBar(rounds, showpb)
	for i := 0; i < rounds; i++ {
		r.Record(s.walk.Pick(c))
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	return r.Done(), used, nil
}

// SimMP 平行抽獎，總計 rounds*mp 次，合併後回傳統計結果與用時
func (s *Simulator) SimMP(rounds int, mp int, showpb bool) (*stats.DrawReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if err := s.prepare(mp); err != nil {
		return nil, 0, err
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(rounds*mp, showpb)
	for i := 0; i < mp; i++ {
		go func(c *core.Core, rec *recorder.DrawRecorder) {
			defer wg.Done()
			for range rounds {
				rec.Record(s.walk.Pick(c))
				bar.Increment()
			}
		}(s.cBuf[i], s.rBuf[i])
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	merged, err := recorder.MergeDrawRecorder(s.rBuf[:mp])
	if err != nil {
		return nil, 0, err
	}
	return merged.Done(), used, nil
}

// SimScratch 以 mp 個 worker、每個 worker 一張 Game 連續試刮 cards 張卡（總計 cards*mp）。
//
// 每張卡用隨機筆劃刮到開獎後 Restart；同時核對 Game 的累積統計與逐張加總一致。
func (s *Simulator) SimScratch(coin int, cards int, mp int, showpb bool) (*stats.ScratchReport, time.Duration, error) {
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if cards < 1 {
		return nil, 0, errs.NewWarn("cards must > 0")
	}
	if coin < 0 || coin >= len(s.cs.Coins) {
		return nil, 0, errs.Warnf("coin index out of range: %d", coin)
	}
	games := make([]*Game, mp)
	bots := make([]*core.Core, mp)
	recs := make([]*recorder.ScratchRecorder, mp)
	geom := Geometry{Width: s.cs.Width, Height: s.cs.Height, DPR: 1}
	for i := 0; i < mp; i++ {
		g, err := newGame(s.cs, s.cf, s.seedmaker.next(), geom)
		if err != nil {
			return nil, 0, err
		}
		if err := g.SelectCoin(coin); err != nil {
			return nil, 0, err
		}
		rec, err := recorder.NewScratchRecorder(s.cs, coin)
		if err != nil {
			return nil, 0, err
		}
		games[i], recs[i] = g, rec
		bots[i] = core.New(s.cf.New(s.seedmaker.next()))
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(cards*mp, showpb)
	for i := 0; i < mp; i++ {
		go func(g *Game, bot *core.Core, rec *recorder.ScratchRecorder) {
			defer wg.Done()
			for range cards {
				moves := playCard(g, bot)
				v := g.View()
				rec.Record(moves, v.Percent, v.Revealed, v.PrizeAmount)
				g.Restart()
				bar.Increment()
			}
			st := g.Stats()
			rec.RecordStats(st.TotalPlays, st.TotalWinnings)
		}(games[i], bots[i], recs[i])
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	merged, err := recorder.MergeScratchRecorder(recs)
	if err != nil {
		return nil, 0, err
	}
	return merged.Done(), used, nil
}

// playCard 用隨機筆劃刮一張卡直到開獎或步數用完，回傳指標事件數（按下 + 移動）
func playCard(g *Game, bot *core.Core) int {
	geom := g.Geometry()
	w, h := float64(geom.Width), float64(geom.Height)
	r := g.Setting().Coins[g.View().Coin].Radius
	moves := 0
	for moves < maxCardMoves {
		x := geom.Left + bot.Below(w)
		y := geom.Top + bot.Below(h)
		ev := PointerEvent{PointerID: scratchPointer, ClientX: x, ClientY: y}
		g.PointerDown(ev)
		moves++
		for j := 0; j < strokeMoves && moves < maxCardMoves && !g.Revealed(); j++ {
			theta := bot.Below(2 * math.Pi)
			ev.ClientX = clamp(ev.ClientX+r*math.Cos(theta), geom.Left, geom.Left+w)
			ev.ClientY = clamp(ev.ClientY+r*math.Sin(theta), geom.Top, geom.Top+h)
			g.PointerMove(ev)
			moves++
		}
		g.PointerUp(ev)
		if g.Revealed() {
			break
		}
	}
	return moves
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// prepare 補足 mp 個核心與紀錄員
func (s *Simulator) prepare(mp int) error {
	for len(s.cBuf) < mp {
		s.cBuf = append(s.cBuf, core.New(s.cf.New(s.seedmaker.next())))
	}
	for len(s.rBuf) < mp {
		r, err := recorder.NewDrawRecorder(s.cs)
		if err != nil {
			return err
		}
		s.rBuf = append(s.rBuf, r)
	}
	return nil
}

func (s *Simulator) reset() {
	for _, r := range s.rBuf {
		r.Reset()
	}
}

func newBar(total int, show bool) *pb.ProgressBar {
	bar := pb.StartNew(total)
	if !show {
		bar.SetWriter(io.Discard)
	}
	return bar
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG（mod 2^63）推進 state，再用可逆的 mix63 打散；可被多 goroutine 同時呼叫
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63：只用可逆的 bit 操作與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
