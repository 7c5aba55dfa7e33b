package recorder

import (
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/spec"
	"github.com/zintix-labs/scratchlab/stats"
)

// DrawRecorder 抽獎紀錄員
//
// 熱路徑只累加整數計數，統計結果在 Done 時一次算出。
type DrawRecorder struct {
	CardName string
	CardID   spec.CID
	cs       *spec.CardSetting
	Counts   []int
	Rounds   int
	Payout   int64
	PaySqSum float64 // 平方和（獎金到千萬級，int64 平方和會溢位）
}

func NewDrawRecorder(cs *spec.CardSetting) (*DrawRecorder, error) {
	if cs == nil || len(cs.Prizes) == 0 {
		return nil, errs.NewFatal("draw recorder needs a prize table")
	}
	return &DrawRecorder{
		CardName: cs.CardName,
		CardID:   cs.CardID,
		cs:       cs,
		Counts:   make([]int, len(cs.Prizes)),
	}, nil
}

// Record 記錄一次抽中的獎項索引；越界索引視為程式錯誤直接 panic
func (r *DrawRecorder) Record(idx int) {
	amt := r.cs.Prizes[idx].Amount
	r.Counts[idx]++
	r.Rounds++
	r.Payout += amt
	r.PaySqSum += float64(amt) * float64(amt)
}

// MergeDrawRecorder 合併多個 worker 的紀錄；獎項表必須一致
func MergeDrawRecorder(rs []*DrawRecorder) (*DrawRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge draw record err : empty")
	}
	r0 := rs[0]
	m, err := NewDrawRecorder(r0.cs)
	if err != nil {
		return nil, err
	}
	for _, v := range rs {
		if v.CardID != r0.CardID || v.CardName != r0.CardName {
			return nil, errs.NewFatal("merge draw record err : different card")
		}
		if len(v.Counts) != len(m.Counts) {
			return nil, errs.NewFatal("merge draw record err : different prize table")
		}
		for i, c := range v.Counts {
			m.Counts[i] += c
		}
		m.Rounds += v.Rounds
		m.Payout += v.Payout
		m.PaySqSum += v.PaySqSum
	}
	return m, nil
}

// Done 輸出報表
func (r *DrawRecorder) Done() *stats.DrawReport {
	rep := stats.NewDrawReport(r.cs)
	rep.Summary.Rounds = r.Rounds
	rep.Summary.TotalPayout = r.Payout
	rep.Summary.PayoutSqSum = r.PaySqSum
	for i, c := range r.Counts {
		rep.Prizes[i].Count = c
	}
	rep.Done()
	return rep
}

// Reset 清空計數以便重用
func (r *DrawRecorder) Reset() {
	clear(r.Counts)
	r.Rounds = 0
	r.Payout = 0
	r.PaySqSum = 0
}
