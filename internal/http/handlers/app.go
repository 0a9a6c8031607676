package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"valtech/internal/domain"
	"valtech/internal/pages"
	"valtech/internal/referral"
)

// Redeemer applies referral codes.
type Redeemer interface {
	Redeem(ctx context.Context, userID, code string) (*referral.Result, error)
}

// Pinger reports datastore reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Users      domain.UserRepository
	Releases   domain.ReleaseRepository
	Referrals  Redeemer
	Pages      *pages.Loader
	DB         Pinger
	StaticDir  string
	DiscordURL string
	Logger     zerolog.Logger
}

const internalErrorText = "Internal Server Error. Try again later."

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

func (a *App) text(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func (a *App) html(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
