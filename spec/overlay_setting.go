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
	"image/color"
	"strconv"
	"strings"

	"github.com/zintix-labs/scratchlab/errs"
)

// OverlaySetting 刮層外觀：斜向漸層、斜紋與提示文字
type OverlaySetting struct {
	Label        string      `yaml:"label"         json:"label"`
	LabelAlpha   float64     `yaml:"label_alpha"   json:"label_alpha"`
	Gradient     []ColorStop `yaml:"gradient"      json:"gradient"`
	HatchSpacing int         `yaml:"hatch_spacing" json:"hatch_spacing"`
	HatchAlpha   float64     `yaml:"hatch_alpha"   json:"hatch_alpha"`
}

// ColorStop 漸層色標，Color 為 #rrggbb
type ColorStop struct {
	Offset float64 `yaml:"offset" json:"offset"`
	Color  string  `yaml:"color"  json:"color"`
}

func (o *OverlaySetting) init() {
	if o.Label == "" {
		o.Label = "SCRATCH HERE"
	}
	if o.LabelAlpha == 0 {
		o.LabelAlpha = 0.25
	}
	if len(o.Gradient) == 0 {
		o.Gradient = []ColorStop{
			{Offset: 0, Color: "#b8b8c8"},
			{Offset: 0.5, Color: "#d0d0d8"},
			{Offset: 1, Color: "#a8a8b8"},
		}
	}
	if o.HatchSpacing == 0 {
		o.HatchSpacing = 8
	}
	if o.HatchAlpha == 0 {
		o.HatchAlpha = 0.15
	}
}

func (o *OverlaySetting) valid() error {
	if o.LabelAlpha < 0 || o.LabelAlpha > 1 || o.HatchAlpha < 0 || o.HatchAlpha > 1 {
		return errs.NewFatal("overlay alpha must be in [0,1]")
	}
	if o.HatchSpacing < 1 {
		return errs.NewFatal("overlay hatch_spacing must >= 1")
	}
	last := -1.0
	for _, s := range o.Gradient {
		if s.Offset < 0 || s.Offset > 1 || s.Offset < last {
			return errs.NewFatal(fmt.Sprintf("overlay gradient offsets must be ascending in [0,1]: %v", s.Offset))
		}
		last = s.Offset
		if _, err := ParseHexColor(s.Color); err != nil {
			return err
		}
	}
	return nil
}

// ParseHexColor 解析 #rrggbb 成不透明顏色
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.NRGBA{}, errs.NewFatal(fmt.Sprintf("invalid color: %q", s))
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, errs.Wrap(err, fmt.Sprintf("invalid color: %q", s))
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
