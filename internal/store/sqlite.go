package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"solution-cli/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores one solution per database file: an itemtype table holding the
// enum and a solution table of rows referencing their parent.
type SQLiteBackend struct{}

func (SQLiteBackend) Format() Format { return FormatSQLite }
func (SQLiteBackend) Ext() string    { return ".solsqlite" }

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection; keep a single one so they hold for every statement.
	db.SetMaxOpenConns(1)
	// Snapshot files are renamed into place, so no WAL side files.
	pragmas := []string{
		"PRAGMA journal_mode=DELETE;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func migrateSQLiteSolution(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`DROP TABLE IF EXISTS solution;`,
		`DROP TABLE IF EXISTS itemtype;`,
		`CREATE TABLE itemtype (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE solution (
			id INTEGER PRIMARY KEY,
			parent INTEGER NULL REFERENCES solution(id),
			itemtypeid INTEGER NOT NULL REFERENCES itemtype(id),
			name TEXT NOT NULL,
			checked INTEGER NULL
		);`,
		`CREATE INDEX solution_parent ON solution(parent);`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Write builds the database in a temp file next to path and renames it over path.
func (b SQLiteBackend) Write(ctx context.Context, path string, s model.Solution) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_ = f.Close()
	defer func() { _ = os.Remove(tmp) }()

	if err := b.writeDB(ctx, tmp, s); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (SQLiteBackend) writeDB(ctx context.Context, path string, s model.Solution) error {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := migrateSQLiteSolution(ctx, tx); err != nil {
		return err
	}

	enum := s.ItemTypes
	if enum == nil {
		enum = model.ItemTypeEnum()
	}
	for code, name := range enum {
		if _, err := tx.ExecContext(ctx, `INSERT INTO itemtype(id, name) VALUES(?, ?)`, code, name); err != nil {
			return err
		}
	}

	// Foreign keys are enforced, so parents go in first.
	for _, n := range parentFirst(s.Nodes) {
		var parent any
		if n.ParentID != nil {
			parent = *n.ParentID
		}
		var checked any
		if n.IsChecked != nil {
			checked = boolToInt(*n.IsChecked)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO solution(id, parent, itemtypeid, name, checked) VALUES(?, ?, ?, ?, ?)`,
			n.ID, parent, int64(n.ItemType), n.DisplayName, checked); err != nil {
			return fmt.Errorf("insert node %d (%q): %w", n.ID, n.DisplayName, err)
		}
	}
	return tx.Commit()
}

func (SQLiteBackend) Read(ctx context.Context, path string) (model.Solution, error) {
	// Opening a missing path would create an empty database.
	if _, err := os.Stat(path); err != nil {
		return model.Solution{}, err
	}
	db, err := openSQLite(ctx, path)
	if err != nil {
		return model.Solution{}, err
	}
	defer db.Close()

	enum, err := readItemTypes(ctx, db)
	if err != nil {
		return model.Solution{}, err
	}
	if err := model.CheckItemTypes(enum); err != nil {
		return model.Solution{}, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, parent, itemtypeid, name, checked FROM solution ORDER BY id`)
	if err != nil {
		return model.Solution{}, err
	}
	defer rows.Close()

	var nodes []model.Node
	for rows.Next() {
		var (
			n       model.Node
			parent  sql.NullInt64
			typ     int64
			checked sql.NullBool
		)
		if err := rows.Scan(&n.ID, &parent, &typ, &n.DisplayName, &checked); err != nil {
			return model.Solution{}, err
		}
		n.ItemType = model.ItemType(typ)
		if parent.Valid {
			n.ParentID = model.IDPtr(parent.Int64)
		}
		if checked.Valid {
			n.IsChecked = model.BoolPtr(checked.Bool)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return model.Solution{}, err
	}
	return model.Solution{ItemTypes: enum, Nodes: parentFirst(nodes)}, nil
}

func readItemTypes(ctx context.Context, db *sql.DB) (map[int64]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM itemtype`)
	if err != nil {
		return nil, fmt.Errorf("read itemtype table: %w", err)
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
