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

// Package dto 定義 HTTP 層的請求與回應結構。
package dto

import (
	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/corefmt"
	"github.com/zintix-labs/scratchlab/spec"
)

// GameView 對外的卡片狀態；開獎前不帶獎項
type GameView struct {
	ID           string     `json:"id"`
	CardID       spec.CID   `json:"card_id"`
	CardName     string     `json:"card_name"`
	Round        int        `json:"round"`
	State        string     `json:"state"`
	Coin         int        `json:"coin"`
	Percent      int        `json:"percent"`
	PercentText  string     `json:"percent_text"`
	Revealed     bool       `json:"revealed"`
	HasScratched bool       `json:"has_scratched"`
	Prize        *PrizeView `json:"prize,omitempty"`
	Stats        StatsView  `json:"stats"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	Overlay      string     `json:"overlay,omitempty"` // data:image/png;base64,...
}

type PrizeView struct {
	Amount  int64  `json:"amount"`
	Display string `json:"display"`
	Message string `json:"message"`
}

type StatsView struct {
	TotalPlays           int    `json:"total_plays"`
	TotalWinnings        int64  `json:"total_winnings"`
	TotalWinningsDisplay string `json:"total_winnings_display"`
}

func NewGameView(id string, v scratchlab.View) GameView {
	gv := GameView{
		ID:           id,
		CardID:       v.CardID,
		CardName:     v.CardName,
		Round:        v.Round,
		State:        v.State.String(),
		Coin:         v.Coin,
		Percent:      v.Percent,
		PercentText:  corefmt.Percent(v.Percent),
		Revealed:     v.Revealed,
		HasScratched: v.HasScratched,
		Stats: StatsView{
			TotalPlays:           v.Stats.TotalPlays,
			TotalWinnings:        v.Stats.TotalWinnings,
			TotalWinningsDisplay: corefmt.PrizeDisplay(v.Stats.TotalWinnings),
		},
		Width:  v.Width,
		Height: v.Height,
	}
	if v.Revealed {
		gv.Prize = &PrizeView{
			Amount:  v.PrizeAmount,
			Display: corefmt.PrizeDisplay(v.PrizeAmount),
			Message: v.PrizeMessage,
		}
	}
	return gv
}

// PrizeTable 獎項說明（對應畫面上的獎項表）
type PrizeTable struct {
	CardID   spec.CID   `json:"card_id"`
	CardName string     `json:"card_name"`
	Prizes   []PrizeRow `json:"prizes"`
	Coins    []CoinView `json:"coins"`
}

type PrizeRow struct {
	Amount      int64   `json:"amount"`
	Display     string  `json:"display"`
	Weight      float64 `json:"weight"`
	Probability float64 `json:"probability"`
	ProbText    string  `json:"probability_text"`
	Message     string  `json:"message"`
}

type CoinView struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Radius      float64 `json:"radius"`
	DisplaySize int     `json:"display_size"`
	Default     bool    `json:"default,omitempty"`
}

func NewPrizeTable(cs *spec.CardSetting) PrizeTable {
	total := cs.TotalWeight()
	pt := PrizeTable{
		CardID:   cs.CardID,
		CardName: cs.CardName,
		Prizes:   make([]PrizeRow, len(cs.Prizes)),
		Coins:    make([]CoinView, len(cs.Coins)),
	}
	for i, p := range cs.Prizes {
		prob := 0.0
		if total > 0 {
			prob = p.Weight / total
		}
		pt.Prizes[i] = PrizeRow{
			Amount:      p.Amount,
			Display:     corefmt.PrizeDisplay(p.Amount),
			Weight:      p.Weight,
			Probability: prob,
			ProbText:    corefmt.Probability(prob, 4),
			Message:     p.Message,
		}
	}
	for i, c := range cs.Coins {
		pt.Coins[i] = CoinView{
			Index:       i,
			Name:        c.Name,
			Icon:        c.Icon,
			Radius:      c.Radius,
			DisplaySize: c.DisplaySize,
			Default:     i == cs.DefaultCoin,
		}
	}
	return pt
}
