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
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/spec"
)

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeOpenRequest(t *testing.T) {
	req, err := DecodeOpenRequest(post(`{"card_name":"classic","width":320,"height":160,"dpr":2,"left":10,"top":20}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := req.Geometry()
	if g.Width != 320 || g.Height != 160 || g.DPR != 2 || g.Left != 10 || g.Top != 20 {
		t.Fatalf("unexpected geometry: %+v", g)
	}
	if _, err := DecodeOpenRequest(post(`{}`)); err == nil {
		t.Fatalf("expected error without card")
	}
	if _, err := DecodeOpenRequest(post(`{"card_id":1,"width":-1}`)); err == nil {
		t.Fatalf("expected error for negative width")
	}
	if _, err := DecodeOpenRequest(post(`{"card_id":1,"bogus":1}`)); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	for _, body := range []string{
		`{"card_id":1,"width":4096,"height":4096,"dpr":4}`,
		`{"card_id":1,"width":2048,"height":1024,"dpr":2}`,
		`{"card_id":1,"width":4096,"height":2048}`,
	} {
		_, err := DecodeOpenRequest(post(body))
		if err == nil {
			t.Fatalf("expected device pixel budget error for %s", body)
		}
		if errs.Level(err) != errs.Warn {
			t.Fatalf("budget error should be warn, got %v", errs.Level(err))
		}
	}
	if _, err := DecodeOpenRequest(post(`{"card_id":1,"width":1024,"height":1024,"dpr":2}`)); err != nil {
		t.Fatalf("4MP drawable should be accepted: %v", err)
	}
}

func TestDecodePointerRequest(t *testing.T) {
	req, err := DecodePointerRequest(post(`{"events":[{"type":"down","pointer_id":1,"client_x":5,"client_y":6},{"type":"up","pointer_id":1}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Events) != 2 || req.Events[0].Event().ClientY != 6 {
		t.Fatalf("unexpected events: %+v", req.Events)
	}
	if _, err := DecodePointerRequest(post(`{"events":[{"type":"hover"}]}`)); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := DecodePointerRequest(post(`{"events":[]}`)); err == nil {
		t.Fatalf("expected error for empty events")
	}
	if _, err := DecodePointerRequest(post(`{"origin":{"left":1,"top":2}}`)); err != nil {
		t.Fatalf("origin only should be accepted: %v", err)
	}
}

func TestDecodeSimRequest(t *testing.T) {
	req, err := DecodeSimRequest(post(`{"card_id":1,"rounds":1000}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Mode != SimDraw || req.Workers != 1 {
		t.Fatalf("defaults not applied: %+v", req)
	}
	if _, err := DecodeSimRequest(post(`{"card_id":1,"rounds":0}`)); err == nil {
		t.Fatalf("expected error for zero rounds")
	}
	if _, err := DecodeSimRequest(post(`{"card_id":1,"rounds":100000,"mode":"scratch"}`)); err == nil {
		t.Fatalf("expected error for too many scratch cards")
	}
	if _, err := DecodeSimRequest(post(`{"card_id":1,"rounds":1,"mode":"x"}`)); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	// rounds*workers 溢位成 0 也不能通過
	for _, mode := range []string{SimDraw, SimScratch} {
		sr := SimRequest{CardID: 1, Mode: mode, Rounds: math.MaxInt / 2, Workers: 4}
		if err := sr.Valid(); err == nil {
			t.Fatalf("%s: expected error for overflowing rounds", mode)
		}
	}
	if _, err := DecodeSimRequest(post(`{"card_id":1,"rounds":2500000,"workers":4}`)); err != nil {
		t.Fatalf("rounds*workers at the limit should pass: %v", err)
	}
	if _, err := DecodeSimRequest(post(`{"card_id":1,"rounds":2500001,"workers":4}`)); err == nil {
		t.Fatalf("expected error just above the limit")
	}
}

func TestGameViewWithholdsPrize(t *testing.T) {
	v := scratchlab.View{CardID: 1, PrizeAmount: 10000000, PrizeMessage: "big", Percent: 42}
	gv := NewGameView("id", v)
	if gv.Prize != nil {
		t.Fatalf("prize must be withheld before reveal")
	}
	if gv.PercentText != "42%" || gv.State != "idle" {
		t.Fatalf("unexpected view: %+v", gv)
	}
	v.Revealed = true
	v.State = scratchlab.StateRevealed
	gv = NewGameView("id", v)
	if gv.Prize == nil || gv.Prize.Display != "$10,000,000" || gv.State != "revealed" {
		t.Fatalf("unexpected revealed view: %+v", gv)
	}
}

func TestPrizeTable(t *testing.T) {
	cs := &spec.CardSetting{
		CardID:      1,
		DefaultCoin: 1,
		Prizes:      []spec.Prize{{Amount: 0, Weight: 99.95}, {Amount: 10000000, Weight: 0.05}},
		Coins:       []spec.Coin{{Name: "a"}, {Name: "b"}},
	}
	pt := NewPrizeTable(cs)
	if pt.Prizes[1].Display != "$10,000,000" || pt.Prizes[1].ProbText != "0.05%" {
		t.Fatalf("unexpected row: %+v", pt.Prizes[1])
	}
	if !pt.Coins[1].Default || pt.Coins[0].Default {
		t.Fatalf("default coin flag wrong: %+v", pt.Coins)
	}
}
