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

package api

import (
	"net/http"

	"github.com/zintix-labs/scratchlab"
	v1 "github.com/zintix-labs/scratchlab/server/api/v1"
	"github.com/zintix-labs/scratchlab/server/netsvr"
	"github.com/zintix-labs/scratchlab/server/netsvr/middleware"
	"github.com/zintix-labs/scratchlab/server/svrcfg"
)

// RegisterRoutes 掛上 middleware 與 v1 路由；sCfg 需先通過 Vaild()
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg, rt *scratchlab.Runtime) error {
	registerMiddleware(svr, sCfg)
	svr.Get("/healthz", healthz(rt))
	return registerV1API(svr, sCfg, rt)
}

// 順序：request id → access log → recover → cors → compression
func registerMiddleware(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	svr.Use(middleware.CORS(sCfg.AllowedOrigins))
	svr.Use(middleware.Compression)
}

func healthz(rt *scratchlab.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rt.Closed() {
			http.Error(w, "closed: "+rt.ClosedReason(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

func registerV1API(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg, rt *scratchlab.Runtime) error {
	c, err := v1.NewCardHandler(sCfg.Lab)
	if err != nil {
		return err
	}
	g, err := v1.NewGameHandler(rt, sCfg.Log)
	if err != nil {
		return err
	}
	s, err := v1.NewSimHandler(sCfg.Lab, sCfg.SimTimeout, sCfg.Log)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/cards", c.List)
		vOne.Get("/cards/{cid}/prizes", c.Prizes)

		vOne.Post("/games", g.Open)
		vOne.Get("/games/{id}", g.View)
		vOne.Delete("/games/{id}", g.Drop)
		vOne.Post("/games/{id}/coin", g.Coin)
		vOne.Post("/games/{id}/pointer", g.Pointer)
		vOne.Post("/games/{id}/reveal", g.Reveal)
		vOne.Post("/games/{id}/restart", g.Restart)
		vOne.Get("/games/{id}/overlay.png", g.Overlay)
		vOne.Get("/games/{id}/prizes", g.Prizes)

		vOne.Post("/sim", s.Sim)
		vOne.Post("/sim/config", s.SimByConfig)
	})
	return nil
}
