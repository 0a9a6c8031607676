package referral

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"valtech/internal/domain"
	"valtech/internal/metrics"
	"valtech/internal/notify"
)

// MissingParametersError is returned when the user id or the code is empty.
// It keeps whatever was supplied so the caller can offer a prefilled retry.
type MissingParametersError struct {
	UserID       string
	ReferralCode string
}

func (e *MissingParametersError) Error() string {
	var missing []string
	if e.ReferralCode == "" {
		missing = append(missing, "referral_code")
	}
	if e.UserID == "" {
		missing = append(missing, "user_id")
	}
	return "missing parameters: " + strings.Join(missing, ", ")
}

func (e *MissingParametersError) Unwrap() error { return domain.ErrMissingParameters }

// RetryLink builds /referral?... carrying only the supplied values.
func (e *MissingParametersError) RetryLink() string {
	q := url.Values{}
	if e.ReferralCode != "" {
		q.Set("referral_code", e.ReferralCode)
	}
	if e.UserID != "" {
		q.Set("user_id", e.UserID)
	}
	if len(q) == 0 {
		return "/referral"
	}
	return "/referral?" + q.Encode()
}

// Result describes a successful redemption.
type Result struct {
	UserID       string
	Code         string
	Duration     int64
	DurationText string
	PremiumTill  int64
}

// Options tunes redemption.
type Options struct {
	// EnforceExpiry rejects tokens whose expires_in has passed even if the
	// sweeper has not removed them yet.
	EnforceExpiry bool
	Now           func() time.Time
}

// Service applies referral codes to users.
type Service struct {
	referrals domain.ReferralRepository
	notifier  notify.Notifier
	logger    zerolog.Logger
	opts      Options
}

// NewService wires a Service.
func NewService(referrals domain.ReferralRepository, notifier notify.Notifier, logger zerolog.Logger, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{referrals: referrals, notifier: notifier, logger: logger, opts: opts}
}

// Redeem consumes code and grants its duration to userID. The claim and the
// grant commit together; on any error nothing is written.
func (s *Service) Redeem(ctx context.Context, userID, code string) (*Result, error) {
	// Blank values count as missing; anything else is matched exactly.
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(code) == "" {
		metrics.ReferralRedemptions.WithLabelValues("missing_parameters").Inc()
		return nil, &MissingParametersError{UserID: nonBlank(userID), ReferralCode: nonBlank(code)}
	}

	grant, err := s.referrals.Redeem(ctx, code, userID, s.opts.Now(), s.opts.EnforceExpiry)
	if err != nil {
		metrics.ReferralRedemptions.WithLabelValues(resultLabel(err)).Inc()
		if errors.Is(err, domain.ErrInvalidReferralCode) || errors.Is(err, domain.ErrInvalidUser) {
			return nil, err
		}
		return nil, fmt.Errorf("redeem referral: %w", err)
	}

	res := &Result{
		UserID:       grant.UserID,
		Code:         code,
		Duration:     grant.Duration,
		DurationText: domain.FormatDuration(grant.Duration),
		PremiumTill:  grant.PremiumTill,
	}
	metrics.ReferralRedemptions.WithLabelValues("success").Inc()
	s.logger.Info().
		Str("user_id", res.UserID).
		Int64("duration", res.Duration).
		Int64("premium_till", res.PremiumTill).
		Msg("referral redeemed")
	s.notifier.Notify(ctx, fmt.Sprintf("Referral %s applied to %s (%s)", code, res.UserID, res.DurationText))
	return res, nil
}

func nonBlank(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return v
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidReferralCode):
		return "invalid_code"
	case errors.Is(err, domain.ErrInvalidUser):
		return "invalid_user"
	default:
		return "error"
	}
}
