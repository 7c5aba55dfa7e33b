package corefmt

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestAmount(t *testing.T) {
	cases := map[int64]string{0: "0", 100: "100", 1000: "1,000", 10000000: "10,000,000"}
	for n, want := range cases {
		if got := Amount(n); got != want {
			t.Fatalf("Amount(%d) = %q, want %q", n, got, want)
		}
	}
	if got := PrizeDisplay(10000000); got != "$10,000,000" {
		t.Fatalf("unexpected prize display: %q", got)
	}
	if got := PrizeDisplay(0); got != "$0" {
		t.Fatalf("unexpected prize display: %q", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(42); got != "42%" {
		t.Fatalf("unexpected percent: %q", got)
	}
	if got := Probability(0.0005, 4); got != "0.05%" {
		t.Fatalf("unexpected probability: %q", got)
	}
	if got := Probability(0.35, 2); got != "35%" {
		t.Fatalf("unexpected probability: %q", got)
	}
}

func TestBase64(t *testing.T) {
	raw := []byte{0, 1, 2, 250, 255}
	back, err := DecodeBase64(EncodeBase64(raw))
	if err != nil || !bytes.Equal(back, raw) {
		t.Fatalf("base64 mismatch: %v", err)
	}
	back, err = DecodeBase64URL(EncodeBase64URL(raw))
	if err != nil || !bytes.Equal(back, raw) {
		t.Fatalf("base64url mismatch: %v", err)
	}
	if _, err := DecodeBase64("***"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestEncodePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	b, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil || cfg.Width != 3 || cfg.Height != 2 {
		t.Fatalf("decode config: %v %+v", err, cfg)
	}
	if url := PNGDataURL(b); url[:22] != "data:image/png;base64," {
		t.Fatalf("unexpected data url prefix: %s", url[:22])
	}
}
