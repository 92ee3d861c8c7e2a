package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Workspace layout: every workspace keeps its state under a hidden
// .verbline directory next to the user's files.
const (
	workspaceDir = ".verbline"
	databaseFile = "verbline.db"
)

// Path returns the database file location for a workspace. An empty
// workspace means the current directory.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, workspaceDir, databaseFile)
}

// Open creates the workspace state directory when missing and opens
// its SQLite database with foreign keys enabled. The pool is capped at
// one connection; modernc's driver serializes writers anyway and a
// single connection avoids SQLITE_BUSY under concurrent transactions.
func Open(workspace string) (*sql.DB, error) {
	p := Path(workspace)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("workspace %s: %w", workspace, err)
	}
	conn, err := sql.Open("sqlite", "file:"+p+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	return conn, nil
}
