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

package spec

import (
	"math"

	"github.com/zintix-labs/scratchlab/errs"
)

// Prize 獎項：獎金、權重與揭曉訊息
type Prize struct {
	Amount  int64   `yaml:"amount"  json:"amount"`
	Weight  float64 `yaml:"weight"  json:"weight"`
	Message string  `yaml:"message" json:"message"`
}

func (p Prize) valid() error {
	if p.Amount < 0 {
		return errs.NewFatal("prize amount must >= 0")
	}
	if math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) || p.Weight <= 0 {
		return errs.NewFatal("prize weight must be a positive number")
	}
	return nil
}

// Coin 刮卡用的硬幣，Radius 即擦除筆刷半徑（繪圖座標）
type Coin struct {
	Name        string  `yaml:"name"         json:"name"`
	Icon        string  `yaml:"icon"         json:"icon"`
	Radius      float64 `yaml:"radius"       json:"radius"`
	DisplaySize int     `yaml:"display_size" json:"display_size"`
}

func (c Coin) valid() error {
	if c.Name == "" {
		return errs.NewFatal("coin name required")
	}
	if math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) || c.Radius <= 0 {
		return errs.NewFatal("coin radius must be finite and > 0")
	}
	return nil
}
