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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/server/logger"
)

const (
	DefaultMaxGames   = 10_000
	DefaultSimTimeout = 30 * time.Second
	maxGamesCap       = 1_000_000
)

// SvrCfg server 組裝所需的全部依賴，由呼叫端明確注入
type SvrCfg struct {
	Addr           string
	Log            *slog.Logger
	MaxGames       int
	AllowedOrigins []string
	SimTimeout     time.Duration
	Lab            *scratchlab.Lab
}

// Vaild 檢查必要依賴並補上預設值
func (sc *SvrCfg) Vaild() error {
	if sc == nil {
		return errs.NewFatal("server config is required")
	}
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("async log handler is not ready")
		}
	} else {
		sc.Log = logger.NewDefaultLogger(logger.ModeSilence)
	}
	if sc.MaxGames <= 0 {
		sc.MaxGames = DefaultMaxGames
	}
	sc.MaxGames = min(sc.MaxGames, maxGamesCap)
	if sc.SimTimeout <= 0 {
		sc.SimTimeout = DefaultSimTimeout
	}
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	return nil
}
