package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"vaxetl/internal/config"
	apperrors "vaxetl/internal/errors"
	"vaxetl/pkg/contracts/domain"
)

// database/sql driver names per configured dialect
var sqlDrivers = map[string]string{
	config.DriverSQLite:   "sqlite",
	config.DriverPostgres: "pgx",
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is the destination database of a load run
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open connects to the configured database. SQLite parent directories are
// created as needed.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	sqlDriver, ok := sqlDrivers[cfg.Driver]
	if !ok {
		return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported store driver %q", cfg.Driver), nil)
	}

	if cfg.Driver == config.DriverSQLite {
		if dir := sqliteDir(cfg.DSN); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, apperrors.NewStorageError("create database directory", err)
			}
		}
	}

	db, err := sql.Open(sqlDriver, cfg.DSN)
	if err != nil {
		return nil, apperrors.NewStorageError("open "+cfg.Driver, err)
	}
	// One connection keeps an in-memory SQLite database alive across calls
	// and matches the single-connection load.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStorageError("ping "+cfg.Driver, err)
	}

	s := New(db, cfg.Driver)
	s.logger.InfoContext(ctx, "Store opened", slog.String("driver", cfg.Driver))
	return s, nil
}

// New wraps an open database handle. driver is "sqlite" or "postgres".
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver, logger: slog.Default().With(slog.String("component", "store"))}
}

func sqliteDir(dsn string) string {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return ""
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return ""
	}
	return dir
}

// DB exposes the underlying handle for tests and ad hoc queries
func (s *Store) DB() *sql.DB { return s.db }

// Driver returns the configured dialect
func (s *Store) Driver() string { return s.driver }

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// ExecScript executes every statement of a schema script in order and stops
// at the first failure.
func (s *Store) ExecScript(ctx context.Context, script string) error {
	stmts := SplitStatements(script)
	if len(stmts) == 0 {
		return apperrors.NewSchemaError("schema script is empty", nil)
	}
	for i, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewSchemaError(fmt.Sprintf("statement %d failed", i+1), err).
				WithContext("statement", firstLine(stmt))
		}
	}
	s.logger.InfoContext(ctx, "Schema executed", slog.Int("statements", len(stmts)))
	return nil
}

// ApplySchema executes schemaFile, or the embedded script of the store's
// dialect when schemaFile is empty.
func (s *Store) ApplySchema(ctx context.Context, schemaFile string) error {
	script, err := LoadSchema(schemaFile, s.driver)
	if err != nil {
		return apperrors.NewSchemaError("load schema", err)
	}
	return s.ExecScript(ctx, script)
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(stmt, "\n")
	return line
}

// Append inserts rows into table inside one transaction and returns the
// number of rows written. rows hold cell text in table column order; an empty
// cell or one that does not fit the column kind is stored as NULL.
func (s *Store) Append(ctx context.Context, table domain.Table, rows [][]string) (int64, error) {
	query, err := s.insertQuery(table)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, apperrors.NewStorageError("prepare insert into "+table.Name, err)
	}
	defer stmt.Close()

	args := make([]any, len(table.Columns))
	var written int64
	for i, row := range rows {
		if len(row) != len(table.Columns) {
			return 0, apperrors.NewStorageError(
				fmt.Sprintf("row %d has %d cells, %s has %d columns", i, len(row), table.Name, len(table.Columns)), nil)
		}
		for j, col := range table.Columns {
			args[j] = cellValue(row[j], col.Kind)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, apperrors.NewStorageError("insert into "+table.Name, err).WithContext("row", i)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.NewStorageError("commit "+table.Name, err)
	}
	s.logger.DebugContext(ctx, "Rows appended", slog.String("table", table.Name), slog.Int64("rows", written))
	return written, nil
}

func (s *Store) insertQuery(table domain.Table) (string, error) {
	if err := checkIdentifier(table.Name); err != nil {
		return "", err
	}
	if len(table.Columns) == 0 {
		return "", apperrors.NewValidationError("table " + table.Name + " has no columns")
	}
	cols := make([]string, len(table.Columns))
	marks := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		if err := checkIdentifier(c.Name); err != nil {
			return "", err
		}
		cols[i] = quoteIdent(c.Name)
		marks[i] = s.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table.Name), strings.Join(cols, ", "), strings.Join(marks, ", ")), nil
}

func (s *Store) placeholder(n int) string {
	if s.driver == config.DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func checkIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return apperrors.NewValidationError(fmt.Sprintf("invalid identifier %q", name))
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

// cellValue converts cell text to the driver value of a column kind
func cellValue(cell string, kind domain.ColumnKind) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	switch kind {
	case domain.KindInteger:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return nil
	case domain.KindReal:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return nil
		}
		return f
	case domain.KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil
		}
		return b
	default:
		return cell
	}
}

// KeyRow is one (surrogate id, natural key) pair read back from a dimension
type KeyRow struct {
	ID  int64
	Key sql.NullString
}

// FetchKeys reads the id and natural key of every row of a dimension table,
// in id order.
func (s *Store) FetchKeys(ctx context.Context, table, keyColumn string) ([]KeyRow, error) {
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}
	if err := checkIdentifier(keyColumn); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT id, %s FROM %s ORDER BY id", quoteIdent(keyColumn), quoteIdent(table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStorageError("select keys from "+table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []KeyRow
	for rows.Next() {
		var kr KeyRow
		if err := rows.Scan(&kr.ID, &kr.Key); err != nil {
			return nil, apperrors.NewStorageError("scan keys from "+table, err)
		}
		out = append(out, kr)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate keys from "+table, err)
	}
	return out, nil
}

// Count returns the number of rows in table
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	if err := checkIdentifier(table); err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n); err != nil {
		return 0, apperrors.NewStorageError("count "+table, err)
	}
	return n, nil
}
