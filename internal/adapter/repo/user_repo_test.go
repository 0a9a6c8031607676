package repo

import (
	"context"
	"errors"
	"testing"

	"valtech/internal/domain"
	"valtech/internal/sqlinline"
)

func TestGetUserByID(t *testing.T) {
	sql := newStubSQL()
	sql.queueRow(sqlinline.QSelectUserByID, "user-1", 4, true, int64(1_700_000_000))

	u, err := NewUserRepository(sql).GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if u.ID != "user-1" || u.QuotaUsed != 4 || !u.Premium || u.PremiumTill != 1_700_000_000 {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	_, err := NewUserRepository(newStubSQL()).GetByID(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResetFreeQuotaRunsInTransaction(t *testing.T) {
	sql := newStubSQL()
	sql.queueTag(sqlinline.QResetFreeQuota, "UPDATE 12")

	n, err := NewUserRepository(sql).ResetFreeQuota(context.Background())
	if err != nil {
		t.Fatalf("ResetFreeQuota error: %v", err)
	}
	if n != 12 {
		t.Fatalf("rows affected = %d, want 12", n)
	}
	if sql.commits != 1 || len(sql.txQueries) != 1 {
		t.Fatalf("expected a single statement in one transaction, got commits=%d statements=%d", sql.commits, len(sql.txQueries))
	}
}

func TestResetFreeQuotaPropagatesError(t *testing.T) {
	sql := newStubSQL()
	sql.execErr = errors.New("connection reset")

	if _, err := NewUserRepository(sql).ResetFreeQuota(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if sql.rollbacks != 1 {
		t.Fatalf("expected rollback, got %d", sql.rollbacks)
	}
}
