package v1

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/corefmt"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/scratch"
	"github.com/zintix-labs/scratchlab/server/httperr"
	"github.com/zintix-labs/scratchlab/server/netsvr"
)

// GameHandler 以 Runtime 持有的 Game 對外提供刮卡操作。
// 每個 Game 自帶互斥鎖，同一張卡的並行請求會依序套用。
type GameHandler struct {
	rt  *scratchlab.Runtime
	log *slog.Logger
}

func NewGameHandler(rt *scratchlab.Runtime, log *slog.Logger) (*GameHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("runtime is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &GameHandler{rt: rt, log: log}, nil
}

// Open POST /v1/games
func (h *GameHandler) Open(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeOpenRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	cid := req.CardID
	if cid == 0 {
		if cid, err = h.rt.Lab().Resolve(req.CardName); err != nil {
			httperr.Errs(w, err)
			return
		}
	}

	ctx, cancel := withTimeout(r, opTimeout)
	defer cancel()
	var (
		id string
		g  *scratchlab.Game
	)
	if req.Seed != nil {
		id, g, err = h.rt.OpenWithSeed(ctx, cid, *req.Seed, req.Geometry())
	} else {
		id, g, err = h.rt.Open(ctx, cid, req.Geometry())
	}
	if err != nil {
		httperr.Log(h.log, "open game failed", err)
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Location", "/v1/games/"+id)
	writeJSON(w, http.StatusCreated, dto.NewGameView(id, g.View()))
}

// View GET /v1/games/{id}；?overlay=1 時附上覆蓋層 PNG（data URL）
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	id, g, ok := h.game(w, r)
	if !ok {
		return
	}
	gv := dto.NewGameView(id, g.View())
	if q := r.URL.Query().Get("overlay"); q == "1" || q == "true" {
		b, err := overlayPNG(g)
		if err != nil {
			httperr.Log(h.log, "encode overlay failed", err)
			httperr.Errs(w, err)
			return
		}
		gv.Overlay = corefmt.PNGDataURL(b)
	}
	writeJSON(w, http.StatusOK, gv)
}

// Drop DELETE /v1/games/{id}
func (h *GameHandler) Drop(w http.ResponseWriter, r *http.Request) {
	if err := h.rt.Drop(netsvr.URLParam(r, "id")); err != nil {
		httperr.Errs(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Coin POST /v1/games/{id}/coin
func (h *GameHandler) Coin(w http.ResponseWriter, r *http.Request) {
	id, g, ok := h.game(w, r)
	if !ok {
		return
	}
	req, err := dto.DecodeCoinRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := g.SelectCoin(req.Index); err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewGameView(id, g.View()))
}

// Pointer POST /v1/games/{id}/pointer：依序套用一批指標事件
func (h *GameHandler) Pointer(w http.ResponseWriter, r *http.Request) {
	id, g, ok := h.game(w, r)
	if !ok {
		return
	}
	req, err := dto.DecodePointerRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.Origin != nil {
		g.SetOrigin(req.Origin.Left, req.Origin.Top)
	}
	for _, ev := range req.Events {
		switch ev.Type {
		case dto.PointerDown:
			g.PointerDown(ev.Event())
		case dto.PointerMove:
			g.PointerMove(ev.Event())
		case dto.PointerUp:
			g.PointerUp(ev.Event())
		}
	}
	writeJSON(w, http.StatusOK, dto.NewGameView(id, g.View()))
}

// Reveal POST /v1/games/{id}/reveal
func (h *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	id, g, ok := h.game(w, r)
	if !ok {
		return
	}
	g.Reveal()
	writeJSON(w, http.StatusOK, dto.NewGameView(id, g.View()))
}

// Restart POST /v1/games/{id}/restart
func (h *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id, g, ok := h.game(w, r)
	if !ok {
		return
	}
	g.Restart()
	writeJSON(w, http.StatusOK, dto.NewGameView(id, g.View()))
}

// Overlay GET /v1/games/{id}/overlay.png
func (h *GameHandler) Overlay(w http.ResponseWriter, r *http.Request) {
	_, g, ok := h.game(w, r)
	if !ok {
		return
	}
	b, err := overlayPNG(g)
	if err != nil {
		httperr.Log(h.log, "encode overlay failed", err)
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// Prizes GET /v1/games/{id}/prizes：獎項表彈窗內容
func (h *GameHandler) Prizes(w http.ResponseWriter, r *http.Request) {
	_, g, ok := h.game(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPrizeTable(g.Setting()))
}

func (h *GameHandler) game(w http.ResponseWriter, r *http.Request) (string, *scratchlab.Game, bool) {
	id := netsvr.URLParam(r, "id")
	g, err := h.rt.Get(id)
	if err != nil {
		httperr.Errs(w, err)
		return "", nil, false
	}
	return id, g, true
}

func overlayPNG(g *scratchlab.Game) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	g.WithSurface(func(s *scratch.Surface) {
		b, err = corefmt.EncodePNG(s.Overlay())
	})
	return b, err
}
