package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"valtech/internal/domain"
)

// DownloadVersion redirects to the release URL of an exact version.
func (a *App) DownloadVersion(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.ParseFloat(chi.URLParam(r, "version"), 64)
	if err != nil || math.IsNaN(version) || math.IsInf(version, 0) {
		a.text(w, http.StatusNotFound, "Version not found")
		return
	}
	rel, err := a.Releases.GetByVersion(r.Context(), version)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.text(w, http.StatusNotFound, "Version not found")
			return
		}
		a.Logger.Error().Err(err).Float64("version", version).Msg("download: lookup failed")
		a.text(w, http.StatusInternalServerError, internalErrorText)
		return
	}
	http.Redirect(w, r, rel.URL, http.StatusFound)
}

// DownloadLatest redirects to the release with the highest version.
func (a *App) DownloadLatest(w http.ResponseWriter, r *http.Request) {
	rel, err := a.Releases.Latest(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.text(w, http.StatusNotFound, "No releases found")
			return
		}
		a.Logger.Error().Err(err).Msg("download: latest lookup failed")
		a.text(w, http.StatusInternalServerError, internalErrorText)
		return
	}
	http.Redirect(w, r, rel.URL, http.StatusFound)
}
