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

// Package sampler 提供刮刮卡獎項的加權抽樣。
//
// 本檔案 (walk.go) 實作「依序扣減」的加權抽樣：
//   - 在 [0, Σweights) 取一個均勻落點 r。
//   - 依表格順序 r -= weight_i，第一個讓 r <= 0 的項目即為結果。
//   - 浮點誤差導致全部扣完仍 > 0 時，回到第 0 項。
//
// 特性：
//   - 建表時間 O(N)，抽樣 O(N)；獎項表通常只有十幾項，線性走訪最直觀也最好稽核。
//   - 權重可為任意正數（不需加總為 100），機率 = weight_i / Σweights。
//   - 表格順序就是合約的一部分：相同落點永遠落在相同獎項。
package sampler

import (
	"fmt"
	"math"

	"github.com/zintix-labs/scratchlab/sdk/core"
)

// Weight 權重可接受的數值型別；設定檔用 float64，測試常用整數
type Weight interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Walk 為加權依序扣減抽樣表。
type Walk struct {
	weights []float64
	total   float64
}

// BuildWalk 根據權重建立抽樣表。
//
// 權重為負、NaN、Inf，或全部為零時 panic（設定檔驗證應先擋下）。
func BuildWalk[T Weight](weights []T) *Walk {
	if len(weights) == 0 {
		return &Walk{weights: []float64{}, total: 0}
	}
	ws := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		f := float64(w)
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			panic(fmt.Sprintf("walk: invalid weight %v at %d", f, i))
		}
		ws[i] = f
		total += f
	}
	if total <= 0 {
		panic("walk: all weights are zero")
	}
	return &Walk{weights: ws, total: total}
}

// Len 回傳項目數。
func (w *Walk) Len() int {
	return len(w.weights)
}

// Total 回傳權重總和。
func (w *Walk) Total() float64 {
	return w.total
}

// Prob 回傳第 i 項的理論機率 weight_i / Σweights；超出範圍回傳 0。
func (w *Walk) Prob(i int) float64 {
	if i < 0 || i >= len(w.weights) || w.total == 0 {
		return 0
	}
	return w.weights[i] / w.total
}

// PickAt 以落點 r 走訪表格並回傳索引；空表回傳 -1。
func (w *Walk) PickAt(r float64) int {
	if len(w.weights) == 0 {
		return -1
	}
	for i, wt := range w.weights {
		r -= wt
		if r <= 0 {
			return i
		}
	}
	return 0
}

// Pick 透過 Core 取得 [0, total) 的落點後抽樣；空表回傳 -1。
func (w *Walk) Pick(c *core.Core) int {
	if len(w.weights) == 0 {
		return -1
	}
	return w.PickAt(c.Below(w.total))
}
