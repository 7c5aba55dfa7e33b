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
	"fmt"
	"math"

	"github.com/zintix-labs/scratchlab/errs"
)

// CID 卡片編號（Catalog 內唯一）
type CID uint

const (
	defaultThreshold   float64 = 90
	defaultStride      int     = 4
	defaultSampleEvery int     = 5
	defaultWidth       int     = 300
	defaultHeight      int     = 150
)

// CardSetting 包含發行一種刮刮卡所需的所有設定。
type CardSetting struct {
	CardName        string         `yaml:"card_name"        json:"card_name"`
	CardID          CID            `yaml:"card_id"          json:"card_id"`
	Prizes          []Prize        `yaml:"prizes"           json:"prizes"`
	Coins           []Coin         `yaml:"coins"            json:"coins"`
	DefaultCoin     int            `yaml:"default_coin"     json:"default_coin"`
	RevealThreshold float64        `yaml:"reveal_threshold" json:"reveal_threshold"` // 刮開百分比達到即自動全開
	SampleStride    int            `yaml:"sample_stride"    json:"sample_stride"`    // 每隔幾個像素取樣一次
	SampleEvery     int            `yaml:"sample_every"     json:"sample_every"`     // 每幾次移動重算一次覆蓋率
	Width           int            `yaml:"width"            json:"width"`
	Height          int            `yaml:"height"           json:"height"`
	Overlay         OverlaySetting `yaml:"overlay"          json:"overlay"`
}

// Weights 依表格順序回傳權重
func (cs *CardSetting) Weights() []float64 {
	ws := make([]float64, len(cs.Prizes))
	for i, p := range cs.Prizes {
		ws[i] = p.Weight
	}
	return ws
}

// TotalWeight 回傳權重總和
func (cs *CardSetting) TotalWeight() float64 {
	total := 0.0
	for _, p := range cs.Prizes {
		total += p.Weight
	}
	return total
}

// ExpectedAmount 回傳單張卡的理論期望獎金 Σ amount·weight / Σ weight
func (cs *CardSetting) ExpectedAmount() float64 {
	total := cs.TotalWeight()
	if total <= 0 {
		return 0
	}
	acc := 0.0
	for _, p := range cs.Prizes {
		acc += float64(p.Amount) * p.Weight
	}
	return acc / total
}

// init 補上預設值後執行檢查
func (cs *CardSetting) init() error {
	if cs.RevealThreshold == 0 {
		cs.RevealThreshold = defaultThreshold
	}
	if cs.SampleStride == 0 {
		cs.SampleStride = defaultStride
	}
	if cs.SampleEvery == 0 {
		cs.SampleEvery = defaultSampleEvery
	}
	if cs.Width == 0 {
		cs.Width = defaultWidth
	}
	if cs.Height == 0 {
		cs.Height = defaultHeight
	}
	cs.Overlay.init()
	return cs.valid()
}

// valid 執行最基本的設定檔檢查
func (cs *CardSetting) valid() error {
	if cs.CardName == "" {
		return errs.NewFatal("empty card_name")
	}

	// Prizes
	if len(cs.Prizes) == 0 {
		return errs.NewFatal(fmt.Sprintf("card_name: %s err:empty prizes", cs.CardName))
	}
	for i, p := range cs.Prizes {
		if err := p.valid(); err != nil {
			return errs.WrapWithExtra(err, fmt.Sprintf("card_name: %s err:invalid prize", cs.CardName), fmt.Sprintf("index=%d", i))
		}
	}

	// Coins
	if len(cs.Coins) == 0 {
		return errs.NewFatal(fmt.Sprintf("card_name: %s err:empty coins", cs.CardName))
	}
	for i, c := range cs.Coins {
		if err := c.valid(); err != nil {
			return errs.WrapWithExtra(err, fmt.Sprintf("card_name: %s err:invalid coin", cs.CardName), fmt.Sprintf("index=%d", i))
		}
	}
	if cs.DefaultCoin < 0 || cs.DefaultCoin >= len(cs.Coins) {
		return errs.NewFatal(fmt.Sprintf("card_name: %s err:default_coin out of range", cs.CardName))
	}

	// 取樣參數
	if math.IsNaN(cs.RevealThreshold) || cs.RevealThreshold <= 0 || cs.RevealThreshold > 100 {
		return errs.NewFatal(fmt.Sprintf("card_name: %s err:reveal_threshold must be in (0,100]", cs.CardName))
	}
	if cs.SampleStride < 1 {
		return errs.NewFatal(fmt.Sprintf("card_name: %s err:sample_stride must >= 1", cs.CardName))
	}
	if cs.SampleEvery < 1 {
		return errs.NewFatal(fmt.Sprintf("card_name: %s err:sample_every must >= 1", cs.CardName))
	}
	if cs.Width < 1 || cs.Height < 1 {
		return errs.NewFatal(fmt.Sprintf("invalid card size: width=%d height=%d", cs.Width, cs.Height))
	}
	return cs.Overlay.valid()
}
