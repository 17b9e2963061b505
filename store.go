package pagegen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/eringen/pagegen/engine"
)

// ErrNotFound is returned when a requested template or page does not exist.
var ErrNotFound = errors.New("pagegen: not found")

type dialect int

const (
	dialectSQLite dialect = iota
	dialectMySQL
)

// StoredTemplate is one row of the templates table. Content is the raw
// document, front matter included.
type StoredTemplate struct {
	Name      string
	Filename  string
	Content   string
	UpdatedAt time.Time
}

// Store keeps template documents in SQL. It implements engine.Source so an
// Engine can be built straight from the database.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// NewStore opens the template database named by dsn. DSNs starting with
// mysql:// or mariadb:// (or containing "@tcp(") select MySQL; anything else
// is a SQLite file path, optionally prefixed with sqlite://.
func NewStore(dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if isMySQLDSN(dsn) {
		return openMySQL(dsn, logger)
	}
	return openSQLite(strings.TrimPrefix(dsn, "sqlite://"), logger)
}

func isMySQLDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "mysql://") || strings.HasPrefix(dsn, "mariadb://") || strings.Contains(dsn, "@tcp(")
}

func openSQLite(path string, logger *slog.Logger) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := initDB(path)
	if err != nil {
		return nil, err
	}
	// WAL lets the preview server read while an import writes; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db, dialect: dialectSQLite, logger: logger}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func openMySQL(dsn string, logger *slog.Logger) (*Store, error) {
	normalized, err := normalizeMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg, err := mysql.ParseDSN(normalized)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)
	db.SetConnMaxLifetime(time.Hour)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	s := &Store{db: db, dialect: dialectMySQL, logger: logger}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS templates (
    name TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    content TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);`
	if s.dialect == dialectMySQL {
		schema = `
CREATE TABLE IF NOT EXISTS templates (
    name VARCHAR(191) NOT NULL PRIMARY KEY,
    filename VARCHAR(255) NOT NULL,
    content MEDIUMTEXT NOT NULL,
    updated_at BIGINT NOT NULL
) CHARACTER SET utf8mb4`
	}
	_, err := s.db.Exec(schema)
	return err
}

// Save validates and upserts a template document. The template name is the
// file name without its extension.
func (s *Store) Save(ctx context.Context, filename string, raw []byte, modTime time.Time) error {
	filename = path.Base(filepath.ToSlash(filename))
	if !engine.IsTemplateFile(filename) {
		return fmt.Errorf("save template %q: unsupported extension", filename)
	}
	t, err := engine.NewTemplate(filename, raw, modTime)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	upsert := `INSERT OR REPLACE INTO templates (name, filename, content, updated_at) VALUES (?, ?, ?, ?)`
	if s.dialect == dialectMySQL {
		upsert = `INSERT INTO templates (name, filename, content, updated_at) VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE filename = VALUES(filename), content = VALUES(content), updated_at = VALUES(updated_at)`
	}
	if _, err := s.db.ExecContext(ctx, upsert, t.Name, filename, string(raw), modTime.Unix()); err != nil {
		return fmt.Errorf("save template %q: %w", t.Name, err)
	}
	return nil
}

// Get returns the stored template called name.
func (s *Store) Get(ctx context.Context, name string) (StoredTemplate, error) {
	var st StoredTemplate
	var updated int64
	err := s.db.QueryRowContext(ctx, `SELECT name, filename, content, updated_at FROM templates WHERE name = ?`, name).
		Scan(&st.Name, &st.Filename, &st.Content, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredTemplate{}, ErrNotFound
	}
	if err != nil {
		return StoredTemplate{}, err
	}
	st.UpdatedAt = time.Unix(updated, 0)
	return st, nil
}

// List returns every stored template ordered by name.
func (s *Store) List(ctx context.Context) ([]StoredTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, filename, content, updated_at FROM templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredTemplate
	for rows.Next() {
		var st StoredTemplate
		var updated int64
		if err := rows.Scan(&st.Name, &st.Filename, &st.Content, &updated); err != nil {
			return nil, err
		}
		st.UpdatedAt = time.Unix(updated, 0)
		out = append(out, st)
	}
	return out, rows.Err()
}

// Delete removes the template called name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadTemplates implements engine.Source. Rows whose front matter no longer
// parses are logged and skipped.
func (s *Store) LoadTemplates(ctx context.Context) ([]*engine.Template, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	out := make([]*engine.Template, 0, len(rows))
	for _, st := range rows {
		t, err := engine.NewTemplate(st.Filename, []byte(st.Content), st.UpdatedAt)
		if err != nil {
			s.logger.Warn("skipping stored template", "name", st.Name, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ImportDir saves every template file found directly inside dir of fsys and
// returns how many were stored.
func (s *Store) ImportDir(ctx context.Context, fsys fs.FS, dir string) (int, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("import %q: %w", dir, err)
	}
	n := 0
	for _, entry := range entries {
		if entry.IsDir() || !engine.IsTemplateFile(entry.Name()) {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return n, fmt.Errorf("import %q: %w", entry.Name(), err)
		}
		modTime := time.Now()
		if info, err := entry.Info(); err == nil {
			modTime = info.ModTime()
		}
		if err := s.Save(ctx, entry.Name(), raw, modTime); err != nil {
			return n, err
		}
		n++
	}
	s.logger.Info("Imported templates", "dir", dir, "count", n)
	return n, nil
}
