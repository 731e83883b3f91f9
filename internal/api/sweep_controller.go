package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/auth"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
)

// SweepController exposes the per-user catch-up reset and the
// secret-guarded global cron endpoint.
type SweepController struct {
	*core.BaseComponent
	Sweep SweepOps
}

func NewSweepController(sweep SweepOps) *SweepController {
	return &SweepController{
		BaseComponent: core.NewBaseComponent(consts.COMP_CTRL_SWEEP, consts.COMP_SVC_SWEEP),
		Sweep:         sweep,
	}
}

func (c *SweepController) Mount(r chi.Router) {
	r.Post("/tasks/daily-reset", c.dailyReset)
}

// MountCron attaches the global endpoint; the caller wraps it with the
// cron secret middleware. GET is what hosted cron schedulers send; POST
// is accepted for manual triggering.
func (c *SweepController) MountCron(r chi.Router) {
	r.Get("/daily-reset", c.cronReset)
	r.Post("/daily-reset", c.cronReset)
}

func (c *SweepController) dailyReset(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	res, err := c.Sweep.RunForUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (c *SweepController) cronReset(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Sweep.RunGlobal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"resetCount": rows})
}
