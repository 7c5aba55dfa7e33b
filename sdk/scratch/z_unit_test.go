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
	"math"
	"testing"

	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/spec"
)

func defaultLook() Look {
	return LookFromSetting(spec.OverlaySetting{
		Label:        "SCRATCH HERE",
		LabelAlpha:   0.25,
		HatchSpacing: 8,
		HatchAlpha:   0.15,
		Gradient: []spec.ColorStop{
			{Offset: 0, Color: "#b8b8c8"},
			{Offset: 0.5, Color: "#d0d0d8"},
			{Offset: 1, Color: "#a8a8b8"},
		},
	})
}

func TestNewSurface(t *testing.T) {
	s := NewSurface(300, 150, 2, 4, defaultLook())
	if w, h := s.Size(); w != 300 || h != 150 {
		t.Fatalf("size mismatch: %dx%d", w, h)
	}
	if b := s.Overlay().Bounds(); b.Dx() != 600 || b.Dy() != 300 {
		t.Fatalf("overlay should be scaled by dpr, got %v", b)
	}
	if b := s.Mask().Bounds(); b.Dx() != 300 || b.Dy() != 150 {
		t.Fatalf("mask should stay at drawing size, got %v", b)
	}
	if got := s.Coverage(); got != 0 {
		t.Fatalf("fresh surface coverage should be 0, got %v", got)
	}
	for i := 3; i < len(s.Overlay().Pix); i += 4 {
		if s.Overlay().Pix[i] != 0xff {
			t.Fatalf("fresh overlay must be opaque at byte %d", i)
		}
	}
}

func TestNewSurface_BadArgs(t *testing.T) {
	s := NewSurface(0, -1, math.NaN(), 0, Look{})
	if w, h := s.Size(); w != 1 || h != 1 {
		t.Fatalf("expected clamp to 1x1, got %dx%d", w, h)
	}
	if s.DPR() != 1 {
		t.Fatalf("expected dpr 1, got %v", s.DPR())
	}
}

func TestDeviceArea(t *testing.T) {
	if got := DeviceArea(300, 150, 2); got != 600*300 {
		t.Fatalf("unexpected area: %v", got)
	}
	if got := DeviceArea(0, -1, math.NaN()); got != 1 {
		t.Fatalf("bad args should match NewSurface clamp, got %v", got)
	}
	if got := DeviceArea(4096, 4096, 4); got <= MaxDevicePixels {
		t.Fatalf("16384x16384 must exceed the budget, got %v", got)
	}
	s := NewSurface(1024, 1024, 2, 4, Look{})
	if b := s.Overlay().Bounds(); float64(b.Dx()*b.Dy()) != DeviceArea(1024, 1024, 2) {
		t.Fatalf("area mismatch with overlay bounds %v", b)
	}
}

func TestErase_FullCoverage(t *testing.T) {
	s := NewSurface(300, 150, 1, 4, defaultLook())
	s.Erase(150, 75, 1000)
	if got := s.Coverage(); got != 100 {
		t.Fatalf("full erase should be 100, got %v", got)
	}
	for i := 3; i < len(s.Overlay().Pix); i += 4 {
		if s.Overlay().Pix[i] != 0 {
			t.Fatalf("full erase should leave overlay transparent at byte %d", i)
		}
	}
}

func TestErase_Local(t *testing.T) {
	s := NewSurface(300, 150, 1, 1, defaultLook())
	s.Erase(50, 50, 14)
	ov := s.Overlay()
	if a := ov.NRGBAAt(50, 50).A; a != 0 {
		t.Fatalf("center should be cleared, alpha %d", a)
	}
	if a := ov.NRGBAAt(200, 100).A; a != 0xff {
		t.Fatalf("far pixel should be untouched, alpha %d", a)
	}
	if a := s.Mask().NRGBAAt(50, 50).A; a != 0 {
		t.Fatalf("mask center should be cleared")
	}
	// 半徑 14 的圓約 616 像素
	got := s.Coverage() / 100 * 300 * 150
	if math.Abs(got-math.Pi*14*14) > 40 {
		t.Fatalf("erased area %v too far from circle area", got)
	}
}

func TestErase_OutOfBounds(t *testing.T) {
	s := NewSurface(100, 100, 1.5, 4, defaultLook())
	s.Erase(-500, -500, 10)
	s.Erase(1e6, 50, 10)
	s.Erase(50, 50, 0)
	s.Erase(math.NaN(), 50, 10)
	if got := s.Coverage(); got != 0 {
		t.Fatalf("out of bounds erase should not change coverage, got %v", got)
	}
	// 只擦到角落
	s.Erase(0, 0, 10)
	if s.Coverage() <= 0 {
		t.Fatalf("corner erase should count")
	}
}

func TestCoverage_Monotonic(t *testing.T) {
	s := NewSurface(300, 150, 1, 4, defaultLook())
	c := core.New(core.Default().New(3))
	last := 0.0
	for i := 0; i < 300; i++ {
		s.Erase(c.Between(-20, 320), c.Between(-20, 170), 14)
		got := s.Coverage()
		if got < last {
			t.Fatalf("coverage decreased: %v -> %v", last, got)
		}
		if got > 100 {
			t.Fatalf("coverage above 100: %v", got)
		}
		last = got
	}
}

func TestCoverage_SampleCount(t *testing.T) {
	// 3x3 = 9 像素，stride 4 取樣像素 0,4,8，分母 ceil(9/4) = 3
	s := NewSurface(3, 3, 1, 4, Look{})
	s.Mask().Pix[4*4+3] = 0
	if got := s.Coverage(); math.Abs(got-100.0/3) > 1e-9 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	// 非取樣像素不影響結果
	s.Mask().Pix[1*4+3] = 0
	if got := s.Coverage(); math.Abs(got-100.0/3) > 1e-9 {
		t.Fatalf("unsampled pixel changed coverage: %v", got)
	}
}

func TestPercent(t *testing.T) {
	cases := map[float64]int{0: 0, 42.4: 42, 42.5: 43, 89.6: 90, 100: 100, 100.4: 100, -1: 0}
	for raw, want := range cases {
		if got := Percent(raw); got != want {
			t.Fatalf("Percent(%v) = %d, want %d", raw, got, want)
		}
	}
}

func TestGradientAt(t *testing.T) {
	l := defaultLook()
	if c := gradientAt(l.Gradient, 0); c != l.Gradient[0].Color {
		t.Fatalf("t=0 should be first stop")
	}
	if c := gradientAt(l.Gradient, 1); c != l.Gradient[2].Color {
		t.Fatalf("t=1 should be last stop")
	}
	if c := gradientAt(l.Gradient, 0.5); c != l.Gradient[1].Color {
		t.Fatalf("t=0.5 should be middle stop, got %v", c)
	}
}
