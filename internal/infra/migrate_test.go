package infra

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"valtech/internal/infra/migrations"
)

func TestMigrateRunsEmbeddedMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	if err := migrate(context.Background(), db, zerolog.Nop()); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	if gotDir != "." {
		t.Fatalf("goose dir = %q, want %q", gotDir, ".")
	}
}

func TestMigrateWrapsGooseError(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return boom
	}

	if err := migrate(context.Background(), db, zerolog.Nop()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestEmbeddedMigrationsDeclareGooseSections(t *testing.T) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(names) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(names))
	}
	for _, name := range names {
		raw, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		body := string(raw)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s is missing goose Up/Down annotations", name)
		}
	}
}

func TestSurrogateKeyMigrationToleratesExistingPrimaryKey(t *testing.T) {
	raw, err := fs.ReadFile(migrations.FS, "00002_accounttokens_surrogate_id.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	up := strings.SplitN(string(raw), "-- +goose Down", 2)[0]

	guard := strings.Index(up, "IF NOT EXISTS (")
	addPK := strings.Index(up, "ADD CONSTRAINT accounttokens_pkey PRIMARY KEY (id)")
	if guard < 0 || addPK < 0 || guard > addPK {
		t.Fatal("primary key must only be added when the table has none")
	}
	if !strings.Contains(up, "contype = 'p'") {
		t.Fatal("guard must look for an existing primary key in pg_constraint")
	}
	if !strings.Contains(up, "-- +goose StatementBegin") || !strings.Contains(up, "-- +goose StatementEnd") {
		t.Fatal("DO block must be wrapped in goose statement markers")
	}
	if !strings.Contains(up, "UNIQUE (id)") {
		t.Fatal("legacy tables still need a unique surrogate id")
	}
}
