package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/matt-dz/savorystories/internal/store/migrations"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type dialectInfo struct {
	driverName   string
	gooseDialect string
	dir          string
	get          string
	set          string
	del          string
}

var dialects = map[Dialect]dialectInfo{
	DialectSQLite: {
		driverName:   "sqlite",
		gooseDialect: "sqlite3",
		dir:          "sqlite",
		get:          `SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`,
		set: `INSERT INTO kv_entries (namespace, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		del: `DELETE FROM kv_entries WHERE namespace = ? AND key = ?`,
	},
	DialectPostgres: {
		driverName:   "pgx",
		gooseDialect: "pgx",
		dir:          "postgres",
		get:          `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`,
		set: `INSERT INTO kv_entries (namespace, key, value, updated_at) VALUES ($1, $2, $3, now())
			ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		del: `DELETE FROM kv_entries WHERE namespace = $1 AND key = $2`,
	},
}

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

// RunMigrations applies the embedded schema for dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	info, ok := dialects[dialect]
	if !ok {
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(info.gooseDialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, info.dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// SQL is a Driver over a single kv_entries table.
type SQL struct {
	db   *sql.DB
	info dialectInfo
}

// OpenSQL opens dsn with the driver of dialect and migrates the schema.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQL, error) {
	info, ok := dialects[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(info.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", dialect, err)
	}
	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQL{db: db, info: info}, nil
}

func (s *SQL) Namespace(name string) KV {
	return &sqlKV{s: s, ns: name}
}

func (s *SQL) Close() error {
	return s.db.Close()
}

type sqlKV struct {
	s  *SQL
	ns string
}

func (kv *sqlKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	var value []byte
	err := kv.s.db.QueryRowContext(ctx, kv.s.info.get, kv.ns, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting %s[%s]: %w", kv.ns, key, err)
	}
	return value, true, nil
}

func (kv *sqlKV) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := kv.s.db.ExecContext(ctx, kv.s.info.set, kv.ns, key, value); err != nil {
		return fmt.Errorf("setting %s[%s]: %w", kv.ns, key, err)
	}
	return nil
}

func (kv *sqlKV) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := kv.s.db.ExecContext(ctx, kv.s.info.del, kv.ns, key); err != nil {
		return fmt.Errorf("deleting %s[%s]: %w", kv.ns, key, err)
	}
	return nil
}
