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

// Package corefmt 負責對外顯示的格式：金額、百分比與二進位內容的文字編碼。
package corefmt

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"math"
	"strconv"

	"github.com/zintix-labs/scratchlab/errs"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Amount 千分位：10000000 -> "10,000,000"
func Amount(n int64) string {
	return printer.Sprintf("%d", n)
}

// PrizeDisplay 獎金顯示："$10,000,000"
func PrizeDisplay(n int64) string {
	if n < 0 {
		return "-$" + Amount(-n)
	}
	return "$" + Amount(n)
}

// Percent 整數百分比："42%"
func Percent(p int) string {
	return printer.Sprintf("%d%%", p)
}

// Probability 以百分比顯示機率，保留最多 digits 位小數並去掉尾端 0："0.05%"
func Probability(p float64, digits int) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "-"
	}
	s := strconv.FormatFloat(100*p, 'f', max(digits, 0), 64)
	if digits > 0 {
		s = trimZeros(s)
	}
	return s + "%"
}

func trimZeros(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}

func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode base64 failed")
	}
	return b, nil
}

func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode base64url failed")
	}
	return b, nil
}

// EncodePNG 以最快壓縮編碼 PNG（刮層每次請求都會重編）
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, errs.Wrap(err, "encode png failed")
	}
	return buf.Bytes(), nil
}

// PNGDataURL 組成可直接放進 <img src> 的 data URL
func PNGDataURL(b []byte) string {
	return "data:image/png;base64," + EncodeBase64(b)
}
