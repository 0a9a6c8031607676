package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"valtech/internal/domain"
)

type userResponse struct {
	QuotaUsed   int   `json:"quotaused"`
	Premium     bool  `json:"premium"`
	PremiumTill int64 `json:"premium_till"`
}

func (a *App) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := a.Users.GetByID(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "User not found")
			return
		}
		a.Logger.Error().Err(err).Msg("user: lookup failed")
		a.error(w, http.StatusInternalServerError, internalErrorText)
		return
	}
	a.json(w, http.StatusOK, userResponse{QuotaUsed: u.QuotaUsed, Premium: u.Premium, PremiumTill: u.PremiumTill})
}
