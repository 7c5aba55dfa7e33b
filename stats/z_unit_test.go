package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/scratchlab/spec"
	"github.com/zintix-labs/scratchlab/stats"
)

func twoPrizeCard() *spec.CardSetting {
	return &spec.CardSetting{
		CardName: "TestCard",
		CardID:   3,
		Prizes: []spec.Prize{
			{Amount: 0, Weight: 3},
			{Amount: 100, Weight: 1},
		},
	}
}

// buildDrawReport 依計數組出報告
func buildDrawReport(counts ...int) *stats.DrawReport {
	cs := twoPrizeCard()
	r := stats.NewDrawReport(cs)
	for i, c := range counts {
		amt := cs.Prizes[i].Amount
		r.Prizes[i].Count = c
		r.Summary.Rounds += c
		r.Summary.TotalPayout += int64(c) * amt
		r.Summary.PayoutSqSum += float64(c) * float64(amt*amt)
	}
	r.Done()
	return r
}

func TestDrawReport_Basic(t *testing.T) {
	r := buildDrawReport(750, 250)
	s := r.Summary
	if s.ExpectedPayout != 25 {
		t.Fatalf("expected payout 25, got %v", s.ExpectedPayout)
	}
	if s.MeanPayout != 25 {
		t.Fatalf("mean payout 25, got %v", s.MeanPayout)
	}
	if s.Hits != 250 || s.HitRate != 0.25 || s.ExpectedHitRate != 0.25 {
		t.Fatalf("unexpected hit stats: %+v", s)
	}
	if !(s.HitRateCI.Lo < 0.25 && s.HitRateCI.Hi > 0.25) {
		t.Fatalf("hit rate CI should contain 0.25: %+v", s.HitRateCI)
	}
	if !(s.MeanCI.Lo < 25 && s.MeanCI.Hi > 25) {
		t.Fatalf("mean CI should contain 25: %+v", s.MeanCI)
	}
	// 0/100 伯努利，std = 100*sqrt(p(1-p)*n/(n-1))
	want := 100 * math.Sqrt(0.25*0.75*1000/999)
	if math.Abs(s.Std-want) > 1e-9 {
		t.Fatalf("std %v, want %v", s.Std, want)
	}
	if r.Prizes[1].Observed != 0.25 || r.Prizes[1].Expected != 0.25 {
		t.Fatalf("unexpected prize row: %+v", r.Prizes[1])
	}
}

func TestDrawReport_ChiSquare(t *testing.T) {
	exact := buildDrawReport(750, 250)
	if exact.Fit.ChiSquare != 0 || exact.Fit.DF != 1 || math.Abs(exact.Fit.PValue-1) > 1e-12 {
		t.Fatalf("perfect fit should give chi 0 / p 1: %+v", exact.Fit)
	}
	// (500-750)²/750 + (500-250)²/250 = 83.33 + 250
	skew := buildDrawReport(500, 500)
	if math.Abs(skew.Fit.ChiSquare-(250.0*250/750+250.0*250/250)) > 1e-9 {
		t.Fatalf("unexpected chi square: %v", skew.Fit.ChiSquare)
	}
	if skew.Fit.PValue > 1e-6 {
		t.Fatalf("skewed counts should be rejected, p=%v", skew.Fit.PValue)
	}
}

func TestDrawReport_Empty(t *testing.T) {
	r := buildDrawReport()
	if r.Summary.Rounds != 0 || r.Summary.MeanPayout != 0 || r.Fit.PValue != 1 {
		t.Fatalf("empty report should be neutral: %+v %+v", r.Summary, r.Fit)
	}
}

func TestDrawReport_Render(t *testing.T) {
	r := buildDrawReport(750, 250)

	var jb bytes.Buffer
	if err := r.WriteWith(&jb, stats.JsonRender[stats.DrawReport]{}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back struct {
		Summary struct{ Rounds int }
		Prizes  []struct{ Count int }
	}
	if err := json.Unmarshal(jb.Bytes(), &back); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if back.Summary.Rounds != 1000 || len(back.Prizes) != 2 {
		t.Fatalf("unexpected json: %s", jb.String())
	}

	var yb bytes.Buffer
	if err := r.WriteWith(&yb, stats.YAMLRender[stats.DrawReport]{}); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(yb.String(), "Rounds: 1000") {
		t.Fatalf("unexpected yaml: %s", yb.String())
	}
}

func TestScratchReport(t *testing.T) {
	r := &stats.ScratchReport{
		Cards:         3,
		Revealed:      3,
		Moves:         30,
		MovesSqSum:    8*8 + 10*10 + 12*12,
		PercentSum:    273,
		TotalPayout:   100,
		TotalPlays:    3,
		TotalWinnings: 100,
	}
	r.Done()
	if r.MeanMoves != 10 || r.StdMoves != 2 || r.MeanPercent != 91 {
		t.Fatalf("unexpected scratch stats: %+v", r)
	}
	if !r.StatsConsistent || !r.AllRevealed() {
		t.Fatalf("expected consistent and fully revealed")
	}
}

func TestRenderFor(t *testing.T) {
	for _, f := range []string{"json", "YAML", "yml"} {
		if _, err := stats.RenderFor[stats.DrawReport](f); err != nil {
			t.Fatalf("RenderFor(%q): %v", f, err)
		}
	}
	if _, err := stats.RenderFor[stats.DrawReport]("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
