package stats

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/zintix-labs/scratchlab/spec"
	"golang.org/x/text/message"
)

// ScratchReport 試刮統計：每張卡刮幾下才開獎、開獎時的覆蓋率
type ScratchReport struct {
	CardName        string   `json:"CardName"       yaml:"CardName"`
	CardID          spec.CID `json:"CardID"         yaml:"CardID"`
	Coin            string   `json:"Coin"           yaml:"Coin"`
	Radius          float64  `json:"Radius"         yaml:"Radius"`
	Threshold       float64  `json:"Threshold"      yaml:"Threshold"`
	Cards           int      `json:"Cards"          yaml:"Cards"`
	Revealed        int      `json:"Revealed"       yaml:"Revealed"`
	Moves           int      `json:"Moves"          yaml:"Moves"`
	MovesSqSum      float64  `json:"MovesSqSum"     yaml:"MovesSqSum"` // 平方和
	MinMoves        int      `json:"MinMoves"       yaml:"MinMoves"`
	MaxMoves        int      `json:"MaxMoves"       yaml:"MaxMoves"`
	PercentSum      float64  `json:"PercentSum"     yaml:"PercentSum"`
	MeanMoves       float64  `json:"MeanMoves"      yaml:"MeanMoves"`
	StdMoves        float64  `json:"StdMoves"       yaml:"StdMoves"`
	MeanPercent     float64  `json:"MeanPercent"    yaml:"MeanPercent"`
	TotalPayout     int64    `json:"TotalPayout"    yaml:"TotalPayout"`
	TotalPlays      int      `json:"TotalPlays"     yaml:"TotalPlays"`
	TotalWinnings   int64    `json:"TotalWinnings"  yaml:"TotalWinnings"`
	StatsConsistent bool     `json:"StatsConsistent" yaml:"StatsConsistent"` // 累積統計 == 逐張加總
	isDone          bool
}

// Done 計算平均與標準差，可重複呼叫
func (r *ScratchReport) Done() {
	if r.isDone {
		return
	}
	if r.Revealed > 0 {
		n := float64(r.Revealed)
		r.MeanMoves = float64(r.Moves) / n
		r.MeanPercent = r.PercentSum / n
		if r.Revealed > 1 {
			sum := float64(r.Moves)
			v := (r.MovesSqSum - sum*sum/n) / (n - 1)
			r.StdMoves = math.Sqrt(max(v, 0))
		}
	}
	r.StatsConsistent = r.TotalPlays == r.Revealed && r.TotalWinnings == r.TotalPayout
	r.isDone = true
}

// AllRevealed 每張卡都走到開獎
func (r *ScratchReport) AllRevealed() bool {
	return r.Cards > 0 && r.Revealed == r.Cards
}

func (r *ScratchReport) WriteWith(w io.Writer, rep Render[ScratchReport]) error {
	r.Done()
	return rep.Write(w, r)
}

func (r *ScratchReport) StdOut(ut time.Duration) {
	r.Done()
	formatDuration(ut, r.Cards, "cards")
	p := message.NewPrinter(lang)
	m := map[string]string{
		"Card Name":        r.CardName,
		"Card ID":          fmt.Sprintf("%d", r.CardID),
		"Coin":             p.Sprintf("%s (r=%.0f)", r.Coin, r.Radius),
		"Threshold":        p.Sprintf("%.0f %%", r.Threshold),
		"Cards":            p.Sprintf("%d", r.Cards),
		"Revealed":         p.Sprintf("%d", r.Revealed),
		"Moves (mean/std)": p.Sprintf("%.1f / %.1f", r.MeanMoves, r.StdMoves),
		"Moves (min/max)":  p.Sprintf("%d / %d", r.MinMoves, r.MaxMoves),
		"Mean % at Reveal": p.Sprintf("%.2f %%", r.MeanPercent),
		"Total Winnings":   p.Sprintf("%d", r.TotalWinnings),
		"Stats Consistent": fmt.Sprintf("%v", r.StatsConsistent),
	}
	keys := []string{"Card Name", "Card ID", "Coin", "Threshold", "Cards", "Revealed", "Moves (mean/std)", "Moves (min/max)", "Mean % at Reveal", "Total Winnings", "Stats Consistent"}
	fmt.Println(fmtTable("Scratch Simulation", keys, m))
}
