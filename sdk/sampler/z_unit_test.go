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

package sampler

import (
	"math"
	"testing"

	"github.com/zintix-labs/scratchlab/sdk/core"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// assertPanic 驗證函數是否如預期觸發 panic
func assertPanic(t *testing.T, f func(), msg string) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for %s, but got none", msg)
		}
	}()
	f()
}

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []float64, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0.0
	for _, w := range weights {
		totalW += w
	}
	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}
	for i, w := range weights {
		expected := w / totalW
		actual := float64(counts[i]) / float64(len(samples))
		if diff := math.Abs(expected - actual); diff > tolerance {
			t.Errorf("[%s] index %d: expected prob %.4f, got %.4f (diff %.4f > tol %.4f)",
				name, i, expected, actual, diff, tolerance)
		}
	}
}

var classicWeights = []float64{35, 20, 15, 10, 8, 5, 3, 2, 1, 0.5, 0.3, 0.15, 0.05}

// -----------------------------------------------------------------------------
// Tests for Walk
// -----------------------------------------------------------------------------

// TestWalk_Boundaries 驗證落點 0 取第一項、落點 99.99 取最後一項
func TestWalk_Boundaries(t *testing.T) {
	w := BuildWalk(classicWeights)
	if math.Abs(w.Total()-100) > 1e-9 {
		t.Fatalf("expected total 100, got %v", w.Total())
	}
	if got := w.PickAt(0); got != 0 {
		t.Fatalf("PickAt(0): expected 0, got %d", got)
	}
	if got := w.PickAt(99.99); got != len(classicWeights)-1 {
		t.Fatalf("PickAt(99.99): expected %d, got %d", len(classicWeights)-1, got)
	}
	// 剛好落在累積邊界上屬於前一項（r <= 0 即停）
	if got := w.PickAt(35); got != 0 {
		t.Fatalf("PickAt(35): expected 0, got %d", got)
	}
	if got := w.PickAt(35.0001); got != 1 {
		t.Fatalf("PickAt(35.0001): expected 1, got %d", got)
	}
}

// TestWalk_Fallback 落點超出總和時回到第 0 項
func TestWalk_Fallback(t *testing.T) {
	w := BuildWalk([]int{1, 2, 3})
	if got := w.PickAt(6.5); got != 0 {
		t.Fatalf("expected fallback 0, got %d", got)
	}
}

// TestWalk_Distribution 大量抽樣後頻率收斂到 weight / Σweight
func TestWalk_Distribution(t *testing.T) {
	c := core.New(core.Default().New(42))
	w := BuildWalk(classicWeights)
	n := 200000
	samples := make([]int, n)
	for i := range samples {
		samples[i] = w.Pick(c)
	}
	checkDistribution(t, "classic", classicWeights, samples, 0.005)
}

// TestWalk_Prob 理論機率
func TestWalk_Prob(t *testing.T) {
	w := BuildWalk([]float64{1, 3})
	if p := w.Prob(1); math.Abs(p-0.75) > 1e-12 {
		t.Fatalf("expected 0.75, got %v", p)
	}
	if p := w.Prob(5); p != 0 {
		t.Fatalf("out of range prob should be 0, got %v", p)
	}
}

// TestWalk_Empty 空表回傳 -1
func TestWalk_Empty(t *testing.T) {
	w := BuildWalk([]float64{})
	c := core.New(core.Default().New(1))
	if got := w.Pick(c); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := w.PickAt(0); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

// TestWalk_Panics 非法權重
func TestWalk_Panics(t *testing.T) {
	assertPanic(t, func() { BuildWalk([]float64{1, -1}) }, "negative weight")
	assertPanic(t, func() { BuildWalk([]float64{0, 0}) }, "all zero")
	assertPanic(t, func() { BuildWalk([]float64{math.NaN()}) }, "nan weight")
	assertPanic(t, func() { BuildWalk([]float64{math.Inf(1)}) }, "inf weight")
}
