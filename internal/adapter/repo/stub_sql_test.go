package repo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"valtech/internal/infra"
)

type sqlCall struct {
	query string
	args  []any
}

// stubSQL is an in-memory infra.TxExecutor. QueryRow pops the next queued row
// for the query (pgx.ErrNoRows when the queue is empty) and Exec pops the
// next queued command tag.
type stubSQL struct {
	rows     map[string][]stubRow
	tags     map[string][]pgconn.CommandTag
	listRows map[string][][]any
	execErr  error

	calls     []sqlCall
	commits   int
	rollbacks int
	inTx      bool
	txQueries []string
}

func newStubSQL() *stubSQL {
	return &stubSQL{
		rows:     map[string][]stubRow{},
		tags:     map[string][]pgconn.CommandTag{},
		listRows: map[string][][]any{},
	}
}

func (s *stubSQL) queueRow(query string, values ...any) {
	s.rows[query] = append(s.rows[query], stubRow{values: values})
}

func (s *stubSQL) queueTag(query, tag string) {
	s.tags[query] = append(s.tags[query], pgconn.NewCommandTag(tag))
}

func (s *stubSQL) record(query string, args []any) {
	s.calls = append(s.calls, sqlCall{query: query, args: args})
	if s.inTx {
		s.txQueries = append(s.txQueries, query)
	}
}

func (s *stubSQL) called(query string) int {
	n := 0
	for _, c := range s.calls {
		if c.query == query {
			n++
		}
	}
	return n
}

func (s *stubSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.record(query, args)
	if s.execErr != nil {
		return pgconn.CommandTag{}, s.execErr
	}
	queue := s.tags[query]
	if len(queue) == 0 {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	s.tags[query] = queue[1:]
	return queue[0], nil
}

func (s *stubSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.record(query, args)
	queue := s.rows[query]
	if len(queue) == 0 {
		return stubRow{err: pgx.ErrNoRows}
	}
	s.rows[query] = queue[1:]
	return queue[0]
}

func (s *stubSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	s.record(query, args)
	return &stubRows{rows: s.listRows[query]}, nil
}

func (s *stubSQL) WithTx(ctx context.Context, fn func(ctx context.Context, tx infra.SQLExecutor) error) error {
	s.inTx = true
	defer func() { s.inTx = false }()
	if err := fn(ctx, s); err != nil {
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

type stubRows struct {
	testRowsBase
	rows [][]any
	idx  int
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	return assign(dest, r.rows[r.idx-1])
}

func (r *stubRows) Err() error { return nil }

func (r *stubRows) Close() {}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		target.Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

var _ infra.TxExecutor = (*stubSQL)(nil)
