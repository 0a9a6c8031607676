package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubExecutor struct {
	token string
	err   error
	exec  struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return stubRow{token: s.token, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	token string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 0 {
		return errors.New("no dest")
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.token
	return nil
}

func TestFirebaseAPIKey(t *testing.T) {
	store := NewStore(&stubExecutor{token: " abc123 "})
	key, err := store.FirebaseAPIKey(context.Background())
	if err != nil {
		t.Fatalf("FirebaseAPIKey error: %v", err)
	}
	if key != "abc123" {
		t.Fatalf("expected abc123, got %q", key)
	}
}

func TestFirebaseAPIKey_NoRows(t *testing.T) {
	store := NewStore(&stubExecutor{err: pgx.ErrNoRows})
	key, err := store.FirebaseAPIKey(context.Background())
	if err != nil {
		t.Fatalf("FirebaseAPIKey error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestFirebaseAPIKey_QueryError(t *testing.T) {
	store := NewStore(&stubExecutor{err: errors.New("conn refused")})
	if _, err := store.FirebaseAPIKey(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSetFirebaseAPIKey(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	store.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	if err := store.SetFirebaseAPIKey(context.Background(), " secret "); err != nil {
		t.Fatalf("SetFirebaseAPIKey error: %v", err)
	}
	if len(exec.exec.args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(exec.exec.args))
	}
	if v := exec.exec.args[0]; v != ProviderFirebase {
		t.Fatalf("provider arg = %v", v)
	}
	if v, ok := exec.exec.args[1].(string); !ok || v != "secret" {
		t.Fatalf("expected secret argument, got %T %v", exec.exec.args[1], exec.exec.args[1])
	}
	var props map[string]int64
	if err := json.Unmarshal(exec.exec.args[2].([]byte), &props); err != nil {
		t.Fatalf("properties: %v", err)
	}
	if props["fetched_at"] != 1_700_000_000 {
		t.Fatalf("fetched_at = %d", props["fetched_at"])
	}
}

func TestSetFirebaseAPIKeyEmpty(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.SetFirebaseAPIKey(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty key")
	}
}
