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

package core

import (
	"encoding/binary"
	r2 "math/rand/v2"
)

// ChaCha8 以標準庫 math/rand/v2 的 ChaCha8 為底的 PRNG。
//
// bounded 取樣（IntN/UintN）交給 rand.Rand，保證無偏。
type ChaCha8 struct {
	src *r2.ChaCha8
	r   *r2.Rand
}

// newChaCha8WithSeed 以 int64 seed 展開成 32 bytes 的 ChaCha8 種子。
func newChaCha8WithSeed(seed int64) *ChaCha8 {
	var key [32]byte
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	for i := 0; i < 4; i++ {
		x = splitmix64(x)
		binary.LittleEndian.PutUint64(key[i*8:], x)
	}
	src := r2.NewChaCha8(key)
	return &ChaCha8{src: src, r: r2.New(src)}
}

// Uint64 回傳非負整數uint64亂數
func (c *ChaCha8) Uint64() uint64 {
	return c.src.Uint64()
}

// Float64 產出 [0,1) 的 float64（53 bits 精度）
func (c *ChaCha8) Float64() float64 {
	return c.r.Float64()
}

// UintN 產出[0,n) 的uint整數，若 max == 0 回傳 0
func (c *ChaCha8) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return c.r.UintN(max)
}

// IntN 產出[0,n) 的整數，若 max <= 0 回傳 -1
func (c *ChaCha8) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return c.r.IntN(max)
}

// Snapshot 取得當下內部狀態
func (c *ChaCha8) Snapshot() ([]byte, error) {
	return c.src.MarshalBinary()
}

// Restore 恢復內部狀態
func (c *ChaCha8) Restore(data []byte) error {
	return c.src.UnmarshalBinary(data)
}

// splitmix64 將輸入值混洗成新的 64-bit 狀態，用於種子展開。
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
