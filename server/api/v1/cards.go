package v1

import (
	"net/http"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/server/httperr"
	"github.com/zintix-labs/scratchlab/server/netsvr"
)

type CardHandler struct {
	lab *scratchlab.Lab
}

func NewCardHandler(lab *scratchlab.Lab) (*CardHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	return &CardHandler{lab: lab}, nil
}

// List GET /v1/cards
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	sum, err := h.lab.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Prizes GET /v1/cards/{cid}/prizes：不需開卡即可查看獎項表
func (h *CardHandler) Prizes(w http.ResponseWriter, r *http.Request) {
	cid, err := parseCID(netsvr.URLParam(r, "cid"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	cs, err := h.lab.Setting(cid)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPrizeTable(cs))
}
