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

package dto

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/scratch"
	"github.com/zintix-labs/scratchlab/spec"
)

// 防止 body 過大（1MiB）
const maxBody = 1 << 20

// OpenRequest 開新卡。card_id 與 card_name 擇一；尺寸缺省時沿用卡片設定。
type OpenRequest struct {
	CardID   spec.CID `json:"card_id,omitempty"`
	CardName string   `json:"card_name,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	DPR      float64  `json:"dpr,omitempty"`
	Left     float64  `json:"left,omitempty"`
	Top      float64  `json:"top,omitempty"`
	Seed     *int64   `json:"seed,omitempty"` // 可選：指定 seed 以重現
}

func (o *OpenRequest) Geometry() scratchlab.Geometry {
	return scratchlab.Geometry{Left: o.Left, Top: o.Top, Width: o.Width, Height: o.Height, DPR: o.DPR}
}

func (o *OpenRequest) valid() error {
	if o.CardID == 0 && o.CardName == "" {
		return errs.NewWarn("card_id or card_name required")
	}
	if o.Width < 0 || o.Height < 0 || o.DPR < 0 {
		return errs.NewWarn("width, height and dpr must not be negative")
	}
	if o.Width > 4096 || o.Height > 4096 || o.DPR > 4 {
		return errs.NewWarn("drawable too large")
	}
	// 尺寸缺省時由卡片設定補上，建卡時再檢查一次
	if o.Width > 0 && o.Height > 0 {
		if a := scratch.DeviceArea(o.Width, o.Height, o.DPR); a > scratch.MaxDevicePixels {
			return errs.Warnf("drawable too large: %.0f device pixels > %d", a, scratch.MaxDevicePixels)
		}
	}
	return nil
}

type CoinRequest struct {
	Index int `json:"index"`
}

// PointerRequest 一批指標事件，依序套用；Origin 有值時先更新外框位置
type PointerRequest struct {
	Origin *Origin        `json:"origin,omitempty"`
	Events []PointerEvent `json:"events"`
}

type Origin struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

type PointerEvent struct {
	Type      string  `json:"type"` // down | move | up
	PointerID int     `json:"pointer_id"`
	ClientX   float64 `json:"client_x"`
	ClientY   float64 `json:"client_y"`
}

const (
	PointerDown = "down"
	PointerMove = "move"
	PointerUp   = "up"
)

// 單次請求最多事件數
const maxEvents = 512

func (p *PointerRequest) valid() error {
	if len(p.Events) == 0 && p.Origin == nil {
		return errs.NewWarn("events required")
	}
	if len(p.Events) > maxEvents {
		return errs.Warnf("too many events: %d > %d", len(p.Events), maxEvents)
	}
	for i, ev := range p.Events {
		switch ev.Type {
		case PointerDown, PointerMove, PointerUp:
		default:
			return errs.Warnf("events[%d]: unknown type %q", i, ev.Type)
		}
	}
	return nil
}

func (e PointerEvent) Event() scratchlab.PointerEvent {
	return scratchlab.PointerEvent{PointerID: e.PointerID, ClientX: e.ClientX, ClientY: e.ClientY}
}

// SimRequest 模擬請求；mode 為 draw（預設）或 scratch
type SimRequest struct {
	CardID  spec.CID `json:"card_id"`
	Mode    string   `json:"mode,omitempty"`
	Rounds  int      `json:"rounds"`
	Workers int      `json:"workers,omitempty"`
	Coin    int      `json:"coin,omitempty"`
	Seed    *int64   `json:"seed,omitempty"`
}

const (
	SimDraw    = "draw"
	SimScratch = "scratch"

	maxSimRounds  = 10_000_000
	maxSimCards   = 10_000
	maxSimWorkers = 64
)

// Valid 補預設值並檢查上限
func (s *SimRequest) Valid() error {
	if s.Mode == "" {
		s.Mode = SimDraw
	}
	if s.Workers == 0 {
		s.Workers = 1
	}
	if s.Workers < 1 || s.Workers > maxSimWorkers {
		return errs.Warnf("workers must be in [1,%d]", maxSimWorkers)
	}
	// 先除再比，rounds 很大時乘積會溢位
	switch s.Mode {
	case SimDraw:
		if s.Rounds < 1 || s.Rounds > maxSimRounds/s.Workers {
			return errs.Warnf("rounds*workers must be in [1,%d]", maxSimRounds)
		}
	case SimScratch:
		if s.Rounds < 1 || s.Rounds > maxSimCards/s.Workers {
			return errs.Warnf("rounds*workers must be in [1,%d] for scratch", maxSimCards)
		}
	default:
		return errs.Warnf("unknown sim mode %q", s.Mode)
	}
	return nil
}

func DecodeOpenRequest(r *http.Request) (*OpenRequest, error) {
	req := new(OpenRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	return req, req.valid()
}

func DecodeCoinRequest(r *http.Request) (*CoinRequest, error) {
	req := new(CoinRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

func DecodePointerRequest(r *http.Request) (*PointerRequest, error) {
	req := new(PointerRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	return req, req.valid()
}

func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	req := new(SimRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	return req, req.Valid()
}

// decodeJSON 嚴格解碼：限制大小、拒絕未知欄位
func decodeJSON(r *http.Request, v any) error {
	if r == nil || r.Body == nil {
		return errs.NewWarn("empty request body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.NewWithExtra(errs.Warn, "invalid json", err.Error())
	}
	return nil
}
