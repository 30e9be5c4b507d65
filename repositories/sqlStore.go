package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"planner-server/common"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlStore struct {
	conn   *sql.DB
	users  UserRepository
	tasks  TaskRepository
	events EventRepository
}

// NewSQLStore returns a Store issuing hand-written postgres SQL over conn.
func NewSQLStore(conn *sql.DB) Store {
	return &sqlStore{
		conn:   conn,
		users:  NewUserSQLRepository(conn),
		tasks:  NewTaskSQLRepository(conn),
		events: NewEventSQLRepository(conn),
	}
}

func (s *sqlStore) Users() UserRepository   { return s.users }
func (s *sqlStore) Tasks() TaskRepository   { return s.tasks }
func (s *sqlStore) Events() EventRepository { return s.events }
func (s *sqlStore) Close() error            { return s.conn.Close() }

// whereBuilder accumulates "col op $n" clauses.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) String() string {
	return strings.Join(w.clauses, " AND ")
}

// updateStatement builds an UPDATE for the allowed columns present in
// fields. Columns are sorted so the statement text is stable.
func updateStatement(table string, allowed map[string]bool, id string, fields map[string]any, now time.Time) (string, []any, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !allowed[col] {
			return "", nil, fmt.Errorf("%w: unknown column %q", common.ErrValidation, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+2)
	for _, col := range cols {
		args = append(args, fields[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, now)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args))
	return query, args, nil
}

func execAffectingOne(ctx context.Context, db DBTX, op, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}
