package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"valtech/internal/domain"
	"valtech/internal/pages"
	"valtech/internal/referral"
)

// ReferralApply redeems ?referral_code= for ?user_id= and renders the outcome.
func (a *App) ReferralApply(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := a.Referrals.Redeem(r.Context(), q.Get("user_id"), q.Get("referral_code"))
	if err == nil {
		a.renderResult(w, http.StatusOK, pages.Result{
			Headline: "referral applied",
			Message:  fmt.Sprintf("%s of premium has been added to %s.", res.DurationText, res.UserID),
			Success:  true,
		})
		return
	}

	var missing *referral.MissingParametersError
	switch {
	case errors.As(err, &missing):
		a.renderResult(w, http.StatusBadRequest, pages.Result{
			Headline:  "missing information",
			Message:   "Both a referral code and a user id are required.",
			RetryLink: missing.RetryLink(),
		})
	case errors.Is(err, domain.ErrInvalidReferralCode):
		a.renderResult(w, http.StatusUnauthorized, pages.Result{
			Headline:  "invalid referral code",
			Message:   "This referral code does not exist, has expired or was already used.",
			RetryLink: "/referral",
		})
	case errors.Is(err, domain.ErrInvalidUser):
		a.renderResult(w, http.StatusUnprocessableEntity, pages.Result{
			Headline:  "unknown user",
			Message:   "No account matches the supplied user id.",
			RetryLink: "/referral",
		})
	default:
		a.Logger.Error().Err(err).Msg("referral: redemption failed")
		a.renderResult(w, http.StatusInternalServerError, pages.Result{
			Headline: "something went wrong",
			Message:  internalErrorText,
		})
	}
}

func (a *App) renderResult(w http.ResponseWriter, code int, res pages.Result) {
	var buf bytes.Buffer
	if err := pages.RenderResult(&buf, res); err != nil {
		a.Logger.Error().Err(err).Msg("referral: render failed")
		a.text(w, http.StatusInternalServerError, internalErrorText)
		return
	}
	a.html(w, code, buf.Bytes())
}
