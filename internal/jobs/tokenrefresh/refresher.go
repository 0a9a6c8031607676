package tokenrefresh

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"valtech/internal/domain"
	"valtech/internal/metrics"
	"valtech/internal/providers/firebase"
)

const Name = "token-refresh"

// TokenClient is the subset of the Firebase client the refresher uses.
type TokenClient interface {
	FetchAPIKey(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context, apiKey, refreshToken string) (*firebase.RefreshedToken, error)
}

// KeyCache remembers the last API key published upstream.
type KeyCache interface {
	FirebaseAPIKey(ctx context.Context) (string, error)
	SetFirebaseAPIKey(ctx context.Context, key string) error
}

// Refresher renews every stored auth token against the upstream endpoint.
type Refresher struct {
	tokens domain.AuthTokenRepository
	client TokenClient
	keys   KeyCache
	logger zerolog.Logger
}

func New(tokens domain.AuthTokenRepository, client TokenClient, logger zerolog.Logger) *Refresher {
	return &Refresher{tokens: tokens, client: client, logger: logger}
}

// WithKeyCache makes the refresher persist each fetched key and fall back to
// the persisted one when the upstream init endpoint is unavailable.
func (r *Refresher) WithKeyCache(keys KeyCache) *Refresher {
	r.keys = keys
	return r
}

func (r *Refresher) Name() string { return Name }

// Run refreshes all records. A failing record is logged and skipped.
func (r *Refresher) Run(ctx context.Context) error {
	apiKey, err := r.apiKey(ctx)
	if err != nil {
		if errors.Is(err, firebase.ErrAPIKeyUnavailable) {
			r.logger.Warn().Err(err).Msg("token refresh skipped")
			return nil
		}
		return err
	}

	records, err := r.tokens.List(ctx)
	if err != nil {
		return fmt.Errorf("list auth tokens: %w", err)
	}

	var refreshed, failed int
	for _, rec := range records {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.refreshOne(ctx, apiKey, rec); err != nil {
			failed++
			metrics.TokenRefreshes.WithLabelValues("failure").Inc()
			r.logger.Error().Err(err).Str("token_id", rec.ID).Msg("token refresh failed")
			continue
		}
		refreshed++
		metrics.TokenRefreshes.WithLabelValues("success").Inc()
	}
	r.logger.Info().Int("refreshed", refreshed).Int("failed", failed).Msg("token refresh cycle done")
	return nil
}

func (r *Refresher) apiKey(ctx context.Context) (string, error) {
	key, err := r.client.FetchAPIKey(ctx)
	if err == nil {
		if r.keys != nil {
			if cerr := r.keys.SetFirebaseAPIKey(ctx, key); cerr != nil {
				r.logger.Warn().Err(cerr).Msg("persist api key failed")
			}
		}
		return key, nil
	}
	if !errors.Is(err, firebase.ErrAPIKeyUnavailable) {
		return "", fmt.Errorf("fetch api key: %w", err)
	}
	if r.keys == nil {
		return "", err
	}
	cached, cerr := r.keys.FirebaseAPIKey(ctx)
	if cerr != nil || cached == "" {
		if cerr != nil {
			r.logger.Warn().Err(cerr).Msg("load persisted api key failed")
		}
		return "", err
	}
	r.logger.Warn().Err(err).Msg("using persisted api key")
	return cached, nil
}

func (r *Refresher) refreshOne(ctx context.Context, apiKey string, rec domain.AuthToken) error {
	tok, err := r.client.RefreshToken(ctx, apiKey, rec.RefreshToken)
	if err != nil {
		return err
	}
	return r.tokens.UpdateRefreshed(ctx, rec.ID, tok.AccessToken, tok.RefreshToken, tok.ExpiresAt)
}
