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

// Package server 組裝刮刮卡 HTTP 服務。
package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/server/api"
	"github.com/zintix-labs/scratchlab/server/app"
	"github.com/zintix-labs/scratchlab/server/netsvr"
	"github.com/zintix-labs/scratchlab/server/svrcfg"
)

// Run 組裝並啟動預設 HTTP 服務，阻塞到收到終止信號。
//
// 流程：驗證 SvrCfg → 建 Runtime → 建 chi server → 註冊路由 → app.Run()。
// Run 不讀檔案也不讀環境變數，所有依賴由 SvrCfg 注入；cmd/svr 負責讀設定。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Vaild(); err != nil {
		// logger 可能尚未可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 同 Run，但由呼叫端注入 NetSvr（自訂 listener、timeout 或其他 adapter）。
// svr 若是 ChiAdapter 必須 Ready()。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("chi server is not ready")
	}

	rt, err := Assemble(svr, sCfg)
	if err != nil {
		sCfg.Log.Error("assemble failed", slog.Any("err", err))
		return err
	}

	a := app.NewWith(svr)
	a.SetLogger(sCfg.Log)
	a.OnStop(func() { rt.CloseWithReason("server shutdown") })
	sCfg.Log.Info("[scratchlab] listening", slog.String("addr", svr.Address()), slog.Int("max_games", sCfg.MaxGames))
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	sCfg.Log.Info("[scratchlab] stopped", slog.String("reason", rt.ClosedReason()))
	return nil
}

// Assemble 建立 Runtime 並把路由掛到 r 上；測試與嵌入使用。
func Assemble(r netsvr.NetRouter, sCfg *svrcfg.SvrCfg) (*scratchlab.Runtime, error) {
	if err := sCfg.Vaild(); err != nil {
		return nil, err
	}
	rt, err := sCfg.Lab.BuildRuntime(sCfg.MaxGames)
	if err != nil {
		return nil, errs.Wrap(err, "build runtime failed")
	}
	rt.SetLogger(sCfg.Log)
	if err := api.RegisterRoutes(r, sCfg, rt); err != nil {
		rt.CloseWithReason("register routes failed")
		return nil, err
	}
	return rt, nil
}
