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

// Package errs 定義 scratchlab 共用的分級錯誤型別。
//
// 刮刮卡本身的操作（抽獎、擦除、取樣）在卡片建立後都是全函數，不會失敗；
// 錯誤只會出現在設定檔解析、目錄查詢與外部請求驗證這些邊界上。
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLevel 錯誤分級，讓最上層判斷嚴重程度
type ErrLevel uint8

const (
	None  ErrLevel = iota
	Fatal          // 設定錯誤或系統問題，不可恢復
	Warn           // 請求或參數問題，呼叫端可修正
	Log            // 只需記錄
)

func (l ErrLevel) String() string {
	switch l {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// 邊界層常用的哨兵錯誤，以 Wrap 包裝後回傳，呼叫端用 errors.Is 判斷。
var (
	ErrNotFound = NewWarn("not found")
	ErrFull     = NewWarn("capacity reached")
	ErrClosed   = NewFatal("closed")
)

// E 統一的錯誤型別。
// Message 主訊息；Extra 呼叫端追加的上下文；Cause 下層錯誤；ErrLv 嚴重度。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	var b strings.Builder
	b.WriteString("errlv=")
	b.WriteString(e.ErrLv.String())
	b.WriteByte(' ')
	b.WriteString(e.Message)
	if e.Extra != "" {
		b.WriteString(" | extra: ")
		b.WriteString(e.Extra)
	}
	if e.Cause != nil {
		b.WriteString(" (cause: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Brief 只含主訊息與 Extra，不含等級與下層錯誤，可直接回給客戶端
func (e *E) Brief() string {
	if e.Extra == "" {
		return e.Message
	}
	return e.Message + ": " + e.Extra
}

func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }
func NewWarn(msg string) *E  { return New(Warn, msg) }
func NewLog(msg string) *E   { return New(Log, msg) }

func Fatalf(format string, a ...any) *E {
	return New(Fatal, fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return New(Warn, fmt.Sprintf(format, a...))
}

// NewWithExtra 同 New，另附上下文（不影響主訊息）
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 以訊息包裝底層錯誤。
//
// 等級規則：cause 鏈上有 *E 時沿用其等級；來自標準庫或三方依賴一律 Fatal。
// 可預期的情境請直接 New 並指定等級。
func Wrap(cause error, msg string) *E {
	r := New(Level(cause), msg)
	if r.ErrLv == None {
		r.ErrLv = Fatal
	}
	r.Cause = cause
	return r
}

func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	ok := errors.As(err, &e)
	return e, ok
}

// Level 錯誤鏈上第一個 *E 的等級；非本包錯誤為 Fatal，nil 為 None
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}
