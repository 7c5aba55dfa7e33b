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

// Package scratch 實作刮刮卡的刮層與遮罩追蹤。
//
// Surface 同時持有兩張同尺寸（以繪圖座標計）的點陣：
//   - visible：玩家看到的刮層（漸層、斜紋、提示文字），依 dpr 放大，擦除時做反鋸齒。
//   - mask：離屏的二值遮罩（不透明白 = 未刮、透明 = 已刮），只用來量測覆蓋率。
//
// 兩者每次都擦除完全相同的圓形區域；量測只讀 mask，因此筆刷的視覺質感不影響覆蓋率的準確度。
package scratch

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// Surface 刮層 + 遮罩
type Surface struct {
	w, h    int     // 繪圖座標尺寸（CSS px）
	dpr     float64 // 裝置像素比
	stride  int     // 覆蓋率取樣間隔（像素）
	visible *image.NRGBA
	mask    *image.NRGBA

	// 筆刷暫存，跨 Erase 重用
	raster *vector.Rasterizer
	cover  *image.Alpha
}

// MaxDevicePixels 單張刮層 visible 圖層的裝置像素上限（4MP，NRGBA 約 16MiB）
const MaxDevicePixels = 4 << 20

func normalize(w, h int, dpr float64) (int, int, float64) {
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	return max(1, w), max(1, h), dpr
}

// DeviceArea 回傳 NewSurface 會配置的裝置像素數；以 float64 計算，不會溢位
func DeviceArea(w, h int, dpr float64) float64 {
	w, h, dpr = normalize(w, h, dpr)
	return math.Max(1, math.Round(float64(w)*dpr)) * math.Max(1, math.Round(float64(h)*dpr))
}

// NewSurface 建立 w×h 的刮層；dpr <= 0 視為 1，stride < 1 視為 1。
// 呼叫端須先以 DeviceArea 確認不超過 MaxDevicePixels。
func NewSurface(w, h int, dpr float64, stride int, look Look) *Surface {
	w, h, dpr = normalize(w, h, dpr)
	stride = max(1, stride)
	dw := max(1, int(math.Round(float64(w)*dpr)))
	dh := max(1, int(math.Round(float64(h)*dpr)))

	s := &Surface{
		w:       w,
		h:       h,
		dpr:     dpr,
		stride:  stride,
		visible: image.NewNRGBA(image.Rect(0, 0, dw, dh)),
		mask:    image.NewNRGBA(image.Rect(0, 0, w, h)),
		raster:  vector.NewRasterizer(1, 1),
		cover:   image.NewAlpha(image.Rect(0, 0, 1, 1)),
	}
	// 遮罩：整張不透明白
	for i := range s.mask.Pix {
		s.mask.Pix[i] = 0xff
	}
	paint(s.visible, w, h, dpr, look)
	return s
}

// Size 回傳繪圖座標尺寸
func (s *Surface) Size() (int, int) {
	return s.w, s.h
}

func (s *Surface) DPR() float64 {
	return s.dpr
}

// Overlay 回傳刮層點陣（呼叫端只讀）
func (s *Surface) Overlay() *image.NRGBA {
	return s.visible
}

// Mask 回傳遮罩點陣（呼叫端只讀）
func (s *Surface) Mask() *image.NRGBA {
	return s.mask
}

// Erase 以 (x, y) 為圓心、r 為半徑，在刮層與遮罩上擦除同一個圓。
// 座標為繪圖座標，可以落在畫布外（只擦除交集部分）。
func (s *Surface) Erase(x, y, r float64) {
	if r <= 0 || math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(r) {
		return
	}
	s.eraseMask(x, y, r)
	s.eraseVisible(x*s.dpr, y*s.dpr, r*s.dpr)
}

// Coverage 回傳已刮開的百分比（原始值，0~100）。
//
// 每隔 stride 個像素讀一次 alpha（4 bytes/pixel，所以 byte 間隔為 4*stride），
// 分母為 ceil(w*h/stride)。
func (s *Surface) Coverage() float64 {
	pix := s.mask.Pix
	step := 4 * s.stride
	transparent := 0
	for i := 3; i < len(pix); i += step {
		if pix[i] == 0 {
			transparent++
		}
	}
	n := s.w * s.h
	total := (n + s.stride - 1) / s.stride
	if total == 0 {
		return 0
	}
	return float64(transparent) / float64(total) * 100
}

// Percent 將原始覆蓋率四捨五入成整數並封頂 100
func Percent(raw float64) int {
	p := int(math.Round(raw))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// eraseMask 二值擦除：像素中心落在圓內即設為透明
func (s *Surface) eraseMask(x, y, r float64) {
	box := circleBox(x, y, r, s.mask.Rect)
	if box.Empty() {
		return
	}
	r2 := r * r
	for py := box.Min.Y; py < box.Max.Y; py++ {
		dy := float64(py) + 0.5 - y
		row := s.mask.PixOffset(0, py)
		for px := box.Min.X; px < box.Max.X; px++ {
			dx := float64(px) + 0.5 - x
			if dx*dx+dy*dy <= r2 {
				s.mask.Pix[row+4*px+3] = 0
			}
		}
	}
}

// eraseVisible destination-out：alpha *= (1 - coverage)，coverage 由 vector 反鋸齒算出
func (s *Surface) eraseVisible(x, y, r float64) {
	box := circleBox(x, y, r, s.visible.Rect)
	if box.Empty() {
		return
	}
	bw, bh := box.Dx(), box.Dy()
	s.raster.Reset(bw, bh)
	if s.cover.Rect.Dx() < bw || s.cover.Rect.Dy() < bh {
		s.cover = image.NewAlpha(image.Rect(0, 0, bw, bh))
	}
	cover := s.cover.SubImage(image.Rect(0, 0, bw, bh)).(*image.Alpha)
	for i := 0; i < bh; i++ {
		clear(cover.Pix[i*cover.Stride : i*cover.Stride+bw])
	}

	circlePath(s.raster, float32(x-float64(box.Min.X)), float32(y-float64(box.Min.Y)), float32(r))
	s.raster.Draw(cover, cover.Bounds(), image.Opaque, image.Point{})

	for py := 0; py < bh; py++ {
		crow := py * cover.Stride
		vrow := s.visible.PixOffset(box.Min.X, box.Min.Y+py)
		for px := 0; px < bw; px++ {
			c := uint32(cover.Pix[crow+px])
			if c == 0 {
				continue
			}
			a := &s.visible.Pix[vrow+4*px+3]
			*a = uint8((uint32(*a)*(255-c) + 127) / 255)
		}
	}
}

// circleBox 回傳圓的外接矩形與 bounds 的交集
func circleBox(x, y, r float64, bounds image.Rectangle) image.Rectangle {
	box := image.Rect(
		int(math.Floor(x-r)), int(math.Floor(y-r)),
		int(math.Ceil(x+r))+1, int(math.Ceil(y+r))+1,
	)
	return box.Intersect(bounds)
}

// kappa 以四段三次貝茲曲線近似圓
const kappa = 0.5522847498

func circlePath(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}
