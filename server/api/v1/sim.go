package v1

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/server/httperr"
	"github.com/zintix-labs/scratchlab/stats"
)

type SimHandler struct {
	lab     *scratchlab.Lab
	timeout time.Duration
	log     *slog.Logger
}

func NewSimHandler(lab *scratchlab.Lab, timeout time.Duration, log *slog.Logger) (*SimHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &SimHandler{lab: lab, timeout: timeout, log: log}, nil
}

// 內部結構 不影響外部 也不被外部使用
type simResponse struct {
	Seed    int64                `json:"seed"`
	Draw    *stats.DrawReport    `json:"draw,omitempty"`
	Scratch *stats.ScratchReport `json:"scratch,omitempty"`
	UsedMS  int64                `json:"used_ms"`
}

// Sim POST /v1/sim
//
// mode=draw：rounds*workers 次抽獎，回傳分布與卡方檢定；
// mode=scratch：rounds*workers 張卡以隨機筆劃刮到開獎。
func (h *SimHandler) Sim(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSimRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	seed, err := seedOf(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sim, err := h.lab.NewSimulatorWithSeed(req.CardID, seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	h.run(w, r, seed, req, sim)
}

// SimByConfig POST /v1/sim/config
//
// cfg 可為 JSON 物件或 YAML 字串；卡片編號與名稱需已在目錄中，用於試算調整後的權重。
func (h *SimHandler) SimByConfig(w http.ResponseWriter, r *http.Request) {
	type simByConfigRequest struct {
		Rounds  int             `json:"rounds"`
		Workers int             `json:"workers,omitempty"`
		Seed    *int64          `json:"seed,omitempty"`
		Cfg     json.RawMessage `json:"cfg"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	req := new(simByConfigRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.NewWithExtra(errs.Warn, "invalid json", err.Error()))
		return
	}
	cfg := bytes.TrimSpace(req.Cfg)
	if len(cfg) == 0 {
		httperr.Errs(w, errs.NewWarn("cfg is required"))
		return
	}
	seed, err := seedOf(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	var sim *scratchlab.Simulator
	if cfg[0] == '"' {
		var raw string
		if err := json.Unmarshal(cfg, &raw); err != nil {
			httperr.Errs(w, errs.NewWithExtra(errs.Warn, "invalid cfg string", err.Error()))
			return
		}
		sim, err = h.lab.NewSimulatorByYAML([]byte(raw), seed)
	} else {
		sim, err = h.lab.NewSimulatorByJSON(cfg, seed)
	}
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sr := &dto.SimRequest{CardID: sim.CardID, Mode: dto.SimDraw, Rounds: req.Rounds, Workers: req.Workers}
	if err := sr.Valid(); err != nil {
		httperr.Errs(w, err)
		return
	}
	h.run(w, r, seed, sr, sim)
}

func (h *SimHandler) run(w http.ResponseWriter, r *http.Request, seed int64, req *dto.SimRequest, sim *scratchlab.Simulator) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	type result struct {
		resp simResponse
		err  error
	}
	// 模擬本身不可中斷；逾時先回應，背景跑完即丟棄（請求上限已限制工作量）
	done := make(chan result, 1)
	go func() {
		resp := simResponse{Seed: seed}
		var (
			used time.Duration
			err  error
		)
		switch req.Mode {
		case dto.SimScratch:
			resp.Scratch, used, err = sim.SimScratch(req.Coin, req.Rounds, req.Workers, false)
		default:
			resp.Draw, used, err = sim.SimMP(req.Rounds, req.Workers, false)
		}
		resp.UsedMS = used.Milliseconds()
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		err := errs.Wrap(ctx.Err(), "simulation timed out")
		httperr.Log(h.log, "sim aborted", err)
		httperr.Errs(w, err)
	case res := <-done:
		if res.err != nil {
			httperr.Errs(w, errs.Wrap(res.err, "simulate failed"))
			return
		}
		h.log.Debug("sim done",
			slog.Uint64("card_id", uint64(sim.CardID)),
			slog.String("mode", req.Mode),
			slog.Int64("seed", seed),
			slog.Int64("used_ms", res.resp.UsedMS),
		)
		writeJSON(w, http.StatusOK, res.resp)
	}
}

func seedOf(p *int64) (int64, error) {
	if p != nil {
		return *p, nil
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, errs.Wrap(err, "seed generate failed")
	}
	return int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63)), nil
}
