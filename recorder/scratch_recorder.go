package recorder

import (
	"math"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/spec"
	"github.com/zintix-labs/scratchlab/stats"
)

// ScratchRecorder 試刮紀錄員
type ScratchRecorder struct {
	cs   *spec.CardSetting
	coin int
	rep  *stats.ScratchReport
}

func NewScratchRecorder(cs *spec.CardSetting, coin int) (*ScratchRecorder, error) {
	if cs == nil {
		return nil, errs.NewFatal("scratch recorder needs a card setting")
	}
	if coin < 0 || coin >= len(cs.Coins) {
		return nil, errs.Warnf("coin index out of range: %d", coin)
	}
	return &ScratchRecorder{
		cs:   cs,
		coin: coin,
		rep: &stats.ScratchReport{
			CardName:  cs.CardName,
			CardID:    cs.CardID,
			Coin:      cs.Coins[coin].Name,
			Radius:    cs.Coins[coin].Radius,
			Threshold: cs.RevealThreshold,
			MinMoves:  math.MaxInt,
		},
	}, nil
}

// Record 記錄一張卡；revealed 為 false 代表用完步數仍未開獎
func (r *ScratchRecorder) Record(moves int, percent int, revealed bool, amount int64) {
	r.rep.Cards++
	if !revealed {
		return
	}
	r.rep.Revealed++
	r.rep.Moves += moves
	r.rep.MovesSqSum += float64(moves) * float64(moves)
	r.rep.MinMoves = min(r.rep.MinMoves, moves)
	r.rep.MaxMoves = max(r.rep.MaxMoves, moves)
	r.rep.PercentSum += float64(percent)
	r.rep.TotalPayout += amount
}

// RecordStats 寫入 Game 的累積統計，用來交叉驗證
func (r *ScratchRecorder) RecordStats(plays int, winnings int64) {
	r.rep.TotalPlays += plays
	r.rep.TotalWinnings += winnings
}

// MergeScratchRecorder 合併多個 worker 的紀錄
func MergeScratchRecorder(rs []*ScratchRecorder) (*ScratchRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge scratch record err : empty")
	}
	m, err := NewScratchRecorder(rs[0].cs, rs[0].coin)
	if err != nil {
		return nil, err
	}
	for _, v := range rs {
		if v.cs.CardID != m.cs.CardID || v.coin != m.coin {
			return nil, errs.NewFatal("merge scratch record err : different card or coin")
		}
		a, b := m.rep, v.rep
		a.Cards += b.Cards
		a.Revealed += b.Revealed
		a.Moves += b.Moves
		a.MovesSqSum += b.MovesSqSum
		a.MinMoves = min(a.MinMoves, b.MinMoves)
		a.MaxMoves = max(a.MaxMoves, b.MaxMoves)
		a.PercentSum += b.PercentSum
		a.TotalPayout += b.TotalPayout
		a.TotalPlays += b.TotalPlays
		a.TotalWinnings += b.TotalWinnings
	}
	return m, nil
}

// Done 輸出報表（回傳複本，紀錄員可繼續使用）
func (r *ScratchRecorder) Done() *stats.ScratchReport {
	out := *r.rep
	if out.Revealed == 0 {
		out.MinMoves = 0
	}
	out.Done()
	return &out
}
