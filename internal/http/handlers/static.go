package handlers

import (
	"bytes"
	"net/http"
	"path/filepath"

	"valtech/internal/pages"
)

// Page serves a file from the templates directory, read on every request.
func (a *App) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := a.Pages.Read(r.Context(), name)
		if err != nil {
			a.Logger.Error().Err(err).Str("page", name).Msg("page: read failed")
			a.text(w, http.StatusInternalServerError, internalErrorText)
			return
		}
		a.html(w, http.StatusOK, body)
	}
}

// ReferralForm serves referral.html with the inputs prefilled from the
// referral_code and user_id query parameters.
func (a *App) ReferralForm(w http.ResponseWriter, r *http.Request) {
	const name = "referral.html"
	body, err := a.Pages.Read(r.Context(), name)
	if err != nil {
		a.Logger.Error().Err(err).Str("page", name).Msg("page: read failed")
		a.text(w, http.StatusInternalServerError, internalErrorText)
		return
	}
	q := r.URL.Query()
	var buf bytes.Buffer
	if err := pages.RenderPage(&buf, name, body, pages.ReferralForm{
		UserID:       q.Get("user_id"),
		ReferralCode: q.Get("referral_code"),
	}); err != nil {
		a.Logger.Error().Err(err).Str("page", name).Msg("page: render failed")
		a.text(w, http.StatusInternalServerError, internalErrorText)
		return
	}
	a.html(w, http.StatusOK, buf.Bytes())
}

func (a *App) Favicon(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(a.StaticDir, "app.ico"))
}

// Static serves the static directory; mount it under /static/.
func (a *App) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(a.StaticDir)))
}

func (a *App) Discord(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.DiscordURL, http.StatusFound)
}
