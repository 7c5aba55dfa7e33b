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

package scratch

import (
	"image"
	"image/color"
	"math"

	"github.com/zintix-labs/scratchlab/spec"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"
)

// Stop 漸層色標
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Look 刮層外觀
type Look struct {
	Gradient     []Stop
	HatchSpacing int
	HatchAlpha   float64
	Label        string
	LabelAlpha   float64
}

// LookFromSetting 由設定轉成 Look；色碼已在設定載入時驗證過，解析失敗的色標直接略過。
func LookFromSetting(o spec.OverlaySetting) Look {
	l := Look{
		HatchSpacing: o.HatchSpacing,
		HatchAlpha:   o.HatchAlpha,
		Label:        o.Label,
		LabelAlpha:   o.LabelAlpha,
	}
	for _, s := range o.Gradient {
		c, err := spec.ParseHexColor(s.Color)
		if err != nil {
			continue
		}
		l.Gradient = append(l.Gradient, Stop{Offset: s.Offset, Color: c})
	}
	return l
}

// paint 畫出刮層：左上到右下的線性漸層、白色 45 度斜紋、置中提示文字。
// 所有幾何以繪圖座標 (w, h) 描述，再依 dpr 對應到裝置像素。
func paint(dst *image.NRGBA, w, h int, dpr float64, look Look) {
	fw, fh := float64(w), float64(h)
	norm := fw*fw + fh*fh
	spacing := float64(look.HatchSpacing)
	hatch := spacing > 0 && look.HatchAlpha > 0

	b := dst.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		y := (float64(py) + 0.5) / dpr
		for px := b.Min.X; px < b.Max.X; px++ {
			x := (float64(px) + 0.5) / dpr
			c := gradientAt(look.Gradient, (x*fw+y*fh)/norm)
			if hatch {
				// 線段 (i,0)→(i+h,h)，i 從 -h 起每 spacing 一條，即 x-y ≡ -h (mod spacing)
				m := math.Mod(x-y+fh, spacing)
				if m < 0 {
					m += spacing
				}
				d := math.Min(m, spacing-m) / math.Sqrt2
				if d <= 0.5 {
					c = over(c, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, look.HatchAlpha)
				}
			}
			dst.SetNRGBA(px, py, c)
		}
	}

	if look.Label != "" && look.LabelAlpha > 0 {
		drawLabel(dst, w, h, look)
	}
}

// drawLabel 在繪圖座標大小的圖層上寫字，再縮放疊到裝置像素上
func drawLabel(dst *image.NRGBA, w, h int, look Look) {
	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	face := basicfont.Face7x13
	m := face.Metrics()
	width := font.MeasureString(face, look.Label).Ceil()
	baseline := h/2 + (m.Ascent.Ceil()-m.Descent.Ceil())/2

	d := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(color.NRGBA{A: alpha8(look.LabelAlpha)}),
		Face: face,
		Dot:  fixed.P((w-width)/2, baseline),
	}
	d.DrawString(look.Label)

	if dst.Bounds().Eq(layer.Bounds()) {
		xdraw.Draw(dst, dst.Bounds(), layer, image.Point{}, xdraw.Over)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), layer, layer.Bounds(), xdraw.Over, nil)
}

// gradientAt 依 t ∈ [0,1] 在色標間線性內插
func gradientAt(stops []Stop, t float64) color.NRGBA {
	switch {
	case len(stops) == 0:
		return color.NRGBA{R: 0xc0, G: 0xc0, B: 0xc8, A: 0xff}
	case t <= stops[0].Offset:
		return stops[0].Color
	case t >= stops[len(stops)-1].Offset:
		return stops[len(stops)-1].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		f := (t - a.Offset) / span
		return color.NRGBA{
			R: lerp8(a.Color.R, b.Color.R, f),
			G: lerp8(a.Color.G, b.Color.G, f),
			B: lerp8(a.Color.B, b.Color.B, f),
			A: 0xff,
		}
	}
	return stops[len(stops)-1].Color
}

// over 以 alpha 將 src 疊在不透明的 dst 上
func over(dst, src color.NRGBA, alpha float64) color.NRGBA {
	return color.NRGBA{
		R: lerp8(dst.R, src.R, alpha),
		G: lerp8(dst.G, src.G, alpha),
		B: lerp8(dst.B, src.B, alpha),
		A: dst.A,
	}
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

func alpha8(a float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
}
