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
	"strings"
	"testing"
)

const minimalYAML = `
card_name: mini
card_id: 7
prizes:
  - { amount: 0, weight: 3, message: "none" }
  - { amount: 50, weight: 1, message: "fifty" }
coins:
  - { name: "c", icon: "c", radius: 5, display_size: 10 }
`

func TestCardSettingDefaults(t *testing.T) {
	cs, err := GetCardSettingByYAML([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cs.RevealThreshold != 90 || cs.SampleStride != 4 || cs.SampleEvery != 5 {
		t.Fatalf("unexpected sampling defaults: %+v", cs)
	}
	if cs.Width != 300 || cs.Height != 150 {
		t.Fatalf("unexpected size defaults: %dx%d", cs.Width, cs.Height)
	}
	if cs.Overlay.HatchSpacing != 8 || len(cs.Overlay.Gradient) != 3 {
		t.Fatalf("unexpected overlay defaults: %+v", cs.Overlay)
	}
	if got := cs.ExpectedAmount(); math.Abs(got-12.5) > 1e-9 {
		t.Fatalf("expected amount 12.5, got %v", got)
	}
}

func TestCardSettingJSON(t *testing.T) {
	raw := `{"card_name":"j","card_id":2,"prizes":[{"amount":1,"weight":1,"message":"m"}],"coins":[{"name":"c","icon":"c","radius":3,"display_size":8}]}`
	cs, err := GetCardSettingByJSON([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cs.CardID != 2 || len(cs.Weights()) != 1 {
		t.Fatalf("unexpected setting: %+v", cs)
	}
}

func TestCardSettingRejects(t *testing.T) {
	cases := map[string]string{
		"zero weight":   strings.Replace(minimalYAML, "weight: 1,", "weight: 0,", 1),
		"negative amt":  strings.Replace(minimalYAML, "amount: 50", "amount: -50", 1),
		"no coins":      strings.Replace(minimalYAML, "coins:\n  - { name: \"c\", icon: \"c\", radius: 5, display_size: 10 }", "coins: []", 1),
		"bad radius":    strings.Replace(minimalYAML, "radius: 5", "radius: 0", 1),
		"inf radius":    strings.Replace(minimalYAML, "radius: 5", "radius: .inf", 1),
		"bad default":   minimalYAML + "default_coin: 3\n",
		"bad threshold": minimalYAML + "reveal_threshold: 120\n",
		"unknown field": minimalYAML + "bogus: 1\n",
		"bad color":     minimalYAML + "overlay:\n  gradient:\n    - { offset: 0, color: \"#zzzzzz\" }\n",
	}
	for name, raw := range cases {
		if _, err := GetCardSettingByYAML([]byte(raw)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#b8b8c8")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.R != 0xb8 || c.G != 0xb8 || c.B != 0xc8 || c.A != 0xff {
		t.Fatalf("unexpected color: %+v", c)
	}
	if _, err := ParseHexColor("b8b8"); err == nil {
		t.Fatalf("expected error for short color")
	}
}
