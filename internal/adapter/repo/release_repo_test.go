package repo

import (
	"context"
	"errors"
	"testing"

	"valtech/internal/domain"
	"valtech/internal/sqlinline"
)

func TestReleaseByVersion(t *testing.T) {
	sql := newStubSQL()
	sql.queueRow(sqlinline.QSelectReleaseByVersion, 1.5, "https://example.com/v1.5.zip")

	rel, err := NewReleaseRepository(sql).GetByVersion(context.Background(), 1.5)
	if err != nil {
		t.Fatalf("GetByVersion error: %v", err)
	}
	if rel.URL != "https://example.com/v1.5.zip" {
		t.Fatalf("unexpected release: %+v", rel)
	}
	if sql.calls[0].args[0] != 1.5 {
		t.Fatalf("version arg = %#v", sql.calls[0].args[0])
	}
}

func TestLatestReleaseEmptyCatalog(t *testing.T) {
	_, err := NewReleaseRepository(newStubSQL()).Latest(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthTokenListAndUpdate(t *testing.T) {
	sql := newStubSQL()
	sql.listRows[sqlinline.QListAuthTokens] = [][]any{
		{"id-1", "tok-1", "ref-1", true, int64(100)},
		{"id-2", "tok-2", "ref-2", false, int64(200)},
	}
	repo := NewAuthTokenRepository(sql)

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 2 || items[1].ID != "id-2" || items[1].Valid {
		t.Fatalf("unexpected tokens: %+v", items)
	}

	sql.queueTag(sqlinline.QUpdateAuthToken, "UPDATE 1")
	if err := repo.UpdateRefreshed(context.Background(), "id-1", "new", "ref-1", 500); err != nil {
		t.Fatalf("UpdateRefreshed error: %v", err)
	}
	if err := repo.UpdateRefreshed(context.Background(), "gone", "new", "ref", 500); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}
