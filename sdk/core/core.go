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

// Package core 提供刮刮卡抽獎與模擬使用的亂數核心。
//
// 所有抽獎都經過 Core，讓「同一個 seed 得到同一張卡」成為可測試、可稽核的合約。
package core

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// Float64 的精度由實作決定（預設 ChaCha8 為 53-bit mantissa），
// 加權抽獎以 Float64 * 權重總和 產生 [0, total) 的落點。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：同一個實作與版本下，New(seed) 必須是決定性的，
	// 相同 seed 產生相同的輸出序列。
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（ChaCha8）
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return newChaCha8WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供常用取樣工具。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Below 回傳 [0, total) 的浮點亂數；total <= 0 時回傳 0。
func (c *Core) Below(total float64) float64 {
	if total <= 0 {
		return 0
	}
	return c.Float64() * total
}

// Between 回傳 [lo, hi) 的浮點亂數；hi <= lo 時回傳 lo。
func (c *Core) Between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + c.Float64()*(hi-lo)
}
