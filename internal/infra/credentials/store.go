// Package credentials persists upstream API keys so background jobs can keep
// working through a transient outage of the endpoint that publishes them.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"valtech/internal/infra"
	"valtech/internal/sqlinline"
)

const ProviderFirebase = "firebase"

type Store struct {
	sql infra.SQLExecutor
	now func() time.Time
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql, now: time.Now}
}

// FirebaseAPIKey returns the last persisted key, or "" when none was stored.
func (s *Store) FirebaseAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderFirebase)
}

func (s *Store) SetFirebaseAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("firebase api key is required")
	}
	return s.upsert(ctx, ProviderFirebase, key, map[string]any{
		"fetched_at": s.now().UTC().Unix(),
	})
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
