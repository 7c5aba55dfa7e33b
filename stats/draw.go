package stats

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/zintix-labs/scratchlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"Lo"`
	Hi float64 `json:"Hi" yaml:"Hi"`
}

// DrawReport 抽獎統計報告
type DrawReport struct {
	Summary *DrawSummary `json:"Summary" yaml:"Summary"`
	Prizes  []PrizeRow   `json:"Prizes"  yaml:"Prizes"`
	Fit     *FitReport   `json:"Fit"     yaml:"Fit"`
	isDone  bool
}

type DrawSummary struct {
	CardName        string   `json:"CardName"        yaml:"CardName"`
	CardID          spec.CID `json:"CardID"          yaml:"CardID"`
	Rounds          int      `json:"Rounds"          yaml:"Rounds"`
	TotalPayout     int64    `json:"TotalPayout"     yaml:"TotalPayout"`
	PayoutSqSum     float64  `json:"PayoutSqSum"     yaml:"PayoutSqSum"` // 平方和
	MeanPayout      float64  `json:"MeanPayout"      yaml:"MeanPayout"`
	ExpectedPayout  float64  `json:"ExpectedPayout"  yaml:"ExpectedPayout"`
	MeanCI          CI       `json:"MeanCI"          yaml:"MeanCI"`
	Std             float64  `json:"Std"             yaml:"Std"`
	Hits            int      `json:"Hits"            yaml:"Hits"`
	HitRate         float64  `json:"HitRate"         yaml:"HitRate"`
	HitRateCI       CI       `json:"HitRateCI"       yaml:"HitRateCI"`
	ExpectedHitRate float64  `json:"ExpectedHitRate" yaml:"ExpectedHitRate"`
}

// PrizeRow 單一獎項的理論與實測頻率
type PrizeRow struct {
	Index    int     `json:"Index"    yaml:"Index"`
	Amount   int64   `json:"Amount"   yaml:"Amount"`
	Weight   float64 `json:"Weight"   yaml:"Weight"`
	Count    int     `json:"Count"    yaml:"Count"`
	Expected float64 `json:"Expected" yaml:"Expected"` // weight / Σweight
	Observed float64 `json:"Observed" yaml:"Observed"` // count / rounds
}

// FitReport χ² 適合度檢定
type FitReport struct {
	ChiSquare float64 `json:"ChiSquare" yaml:"ChiSquare"`
	DF        int     `json:"DF"        yaml:"DF"`
	PValue    float64 `json:"PValue"    yaml:"PValue"`
}

// NewDrawReport 以獎項表建立空報告
func NewDrawReport(cs *spec.CardSetting) *DrawReport {
	rows := make([]PrizeRow, len(cs.Prizes))
	total := cs.TotalWeight()
	for i, p := range cs.Prizes {
		rows[i] = PrizeRow{Index: i, Amount: p.Amount, Weight: p.Weight}
		if total > 0 {
			rows[i].Expected = p.Weight / total
		}
	}
	return &DrawReport{
		Summary: &DrawSummary{
			CardName:       cs.CardName,
			CardID:         cs.CardID,
			ExpectedPayout: cs.ExpectedAmount(),
		},
		Prizes: rows,
		Fit:    &FitReport{},
	}
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 由累積計數一次算出衍生統計，可重複呼叫
func (r *DrawReport) Done() {
	if r.isDone {
		return
	}
	s := r.Summary
	n := float64(s.Rounds)
	s.Hits = 0
	s.ExpectedHitRate = 0
	for i := range r.Prizes {
		row := &r.Prizes[i]
		if n > 0 {
			row.Observed = float64(row.Count) / n
		}
		if row.Amount > 0 {
			s.Hits += row.Count
			s.ExpectedHitRate += row.Expected
		}
	}
	s.MeanPayout = r.Mean()
	s.Std = r.Std()
	s.MeanCI = r.Ci()
	s.HitRate, s.HitRateCI = proportionCICP(s.Hits, s.Rounds, 0.95)
	r.Fit.ChiSquare, r.Fit.DF, r.Fit.PValue = r.chiSquare()
	r.isDone = true
}

// Mean 平均每張卡獎金
func (r *DrawReport) Mean() float64 {
	if r.Summary.Rounds == 0 {
		return 0
	}
	return float64(r.Summary.TotalPayout) / float64(r.Summary.Rounds)
}

// Std 單張獎金的樣本標準差
func (r *DrawReport) Std() float64 {
	s := r.Summary
	if s.Rounds < 2 {
		return 0
	}
	n := float64(s.Rounds)
	sum := float64(s.TotalPayout)
	variance := (s.PayoutSqSum - sum*sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Ci 平均獎金的 95% 信賴區間
func (r *DrawReport) Ci() CI {
	mean := r.Mean()
	se := 0.0
	if r.Summary.Rounds > 1 {
		se = r.Std() / math.Sqrt(float64(r.Summary.Rounds))
	}
	return CI{Lo: max(mean-1.96*se, 0), Hi: mean + 1.96*se}
}

func (r *DrawReport) WriteWith(w io.Writer, rep Render[DrawReport]) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 印出用時、摘要與獎項分佈
func (r *DrawReport) StdOut(ut time.Duration) {
	r.Done()
	formatDuration(ut, r.Summary.Rounds, "draws")
	sk, sm := r.fmtSummary()
	fmt.Println(fmtTable(r.Summary.CardName, sk, sm))
	pk, pm := r.fmtPrizes()
	fmt.Println(fmtTable("Prize Distribution", pk, pm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

// chiSquare Σ (O-E)²/E，自由度 k-1；E 為 0 的獎項不計
func (r *DrawReport) chiSquare() (float64, int, float64) {
	n := float64(r.Summary.Rounds)
	if n == 0 || len(r.Prizes) < 2 {
		return 0, 0, 1
	}
	chi := 0.0
	k := 0
	for _, row := range r.Prizes {
		e := n * row.Expected
		if e <= 0 {
			continue
		}
		d := float64(row.Count) - e
		chi += d * d / e
		k++
	}
	if k < 2 {
		return 0, 0, 1
	}
	df := k - 1
	p := distuv.ChiSquared{K: float64(df)}.Survival(chi)
	return chi, df, p
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

func (r *DrawReport) fmtSummary() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	m := map[string]string{
		"Card Name":       s.CardName,
		"Card ID":         fmt.Sprintf("%d", s.CardID),
		"Total Rounds":    p.Sprintf("%d", s.Rounds),
		"Total Payout":    p.Sprintf("%d", s.TotalPayout),
		"Mean Payout":     p.Sprintf("%.2f", s.MeanPayout),
		"Expected Payout": p.Sprintf("%.2f", s.ExpectedPayout),
		"Mean 95% CI":     p.Sprintf("[%.2f, %.2f]", s.MeanCI.Lo, s.MeanCI.Hi),
		"STD":             p.Sprintf("%.2f", s.Std),
		"Hit Rate":        p.Sprintf("%.2f %% (exp %.2f %%)", 100*s.HitRate, 100*s.ExpectedHitRate),
		"Hit Rate 95% CI": p.Sprintf("[%.2f%%, %.2f%%]", 100*s.HitRateCI.Lo, 100*s.HitRateCI.Hi),
		"Chi-Square":      p.Sprintf("%.3f (df %d)", r.Fit.ChiSquare, r.Fit.DF),
		"P-Value":         p.Sprintf("%.4f", r.Fit.PValue),
	}
	keys := []string{"Card Name", "Card ID", "Total Rounds", "Total Payout", "Mean Payout", "Expected Payout", "Mean 95% CI", "STD", "Hit Rate", "Hit Rate 95% CI", "Chi-Square", "P-Value"}
	return keys, m
}

func (r *DrawReport) fmtPrizes() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(r.Prizes))
	m := make(map[string]string, len(r.Prizes))
	for _, row := range r.Prizes {
		k := p.Sprintf("#%-2d $%d", row.Index, row.Amount)
		keys = append(keys, k)
		m[k] = p.Sprintf("%d  obs %.4f%%  exp %.4f%%", row.Count, 100*row.Observed, 100*row.Expected)
	}
	return keys, m
}
