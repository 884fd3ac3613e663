// Package cache persists introspection result envelopes between
// invocations. Entries are keyed by a hash of the script's absolute path
// and validated on read against the script's current content hash, the
// hash of neighboring dependency files, the schema version, and the
// runtime version — a stale entry behaves like a miss.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/pyscope/internal/introspect"
)

const dbFileName = "introspection.db"

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS entries (
    path_key        TEXT PRIMARY KEY,
    script_path     TEXT NOT NULL,
    file_hash       TEXT NOT NULL,
    dep_hash        TEXT NOT NULL,
    schema_version  TEXT NOT NULL,
    runtime_version TEXT NOT NULL,
    created_at      INTEGER NOT NULL,
    envelope        TEXT NOT NULL
)`

// Store is a sqlite-backed cache of introspection envelopes.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens (creating if needed) the cache store under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(createEntriesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create entries table: %w", err)
	}

	return &Store{db: db, dir: dir}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the cache directory.
func (s *Store) Path() string {
	return s.dir
}

// Get returns the cached envelope for scriptPath if present and still
// valid. A missing or stale entry returns (nil, false, nil).
func (s *Store) Get(scriptPath string) (*introspect.IntrospectionResult, bool, error) {
	var (
		storedPath string
		fileHash   string
		depHash    string
		schemaVer  string
		runtimeVer string
		envelope   string
	)
	row := s.db.QueryRow(
		`SELECT script_path, file_hash, dep_hash, schema_version, runtime_version, envelope
		 FROM entries WHERE path_key = ?`, pathKey(scriptPath))
	if err := row.Scan(&storedPath, &fileHash, &depHash, &schemaVer, &runtimeVer, &envelope); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if !entryValid(storedPath, fileHash, depHash, schemaVer, runtimeVer) {
		return nil, false, nil
	}

	var result introspect.IntrospectionResult
	if err := json.Unmarshal([]byte(envelope), &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached envelope: %w", err)
	}
	return &result, true, nil
}

// Put stores the envelope for scriptPath, replacing any previous entry.
func (s *Store) Put(scriptPath string, result *introspect.IntrospectionResult) error {
	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to read script for caching: %w", err)
	}

	envelope, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO entries
		 (path_key, script_path, file_hash, dep_hash, schema_version, runtime_version, created_at, envelope)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pathKey(scriptPath),
		scriptPath,
		introspect.HashContent(content),
		dependencyHash(scriptPath),
		introspect.SchemaVersion,
		introspect.InterpreterVersion(),
		time.Now().Unix(),
		string(envelope),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate drops the entry for one script, if any.
func (s *Store) Invalidate(scriptPath string) error {
	if _, err := s.db.Exec(`DELETE FROM entries WHERE path_key = ?`, pathKey(scriptPath)); err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Stats summarizes the store contents.
type Stats struct {
	TotalEntries int
	ValidEntries int
	StaleEntries int
}

// Stats revalidates every entry against the current filesystem state.
func (s *Store) Stats() (Stats, error) {
	rows, err := s.db.Query(
		`SELECT script_path, file_hash, dep_hash, schema_version, runtime_version FROM entries`)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to scan cache entries: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var storedPath, fileHash, depHash, schemaVer, runtimeVer string
		if err := rows.Scan(&storedPath, &fileHash, &depHash, &schemaVer, &runtimeVer); err != nil {
			return Stats{}, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		stats.TotalEntries++
		if entryValid(storedPath, fileHash, depHash, schemaVer, runtimeVer) {
			stats.ValidEntries++
		} else {
			stats.StaleEntries++
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("failed to iterate cache entries: %w", err)
	}
	return stats, nil
}

// entryValid re-checks the conditions an entry was stored under.
func entryValid(scriptPath, fileHash, depHash, schemaVer, runtimeVer string) bool {
	if schemaVer != introspect.SchemaVersion || runtimeVer != introspect.InterpreterVersion() {
		return false
	}
	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return false
	}
	if introspect.HashContent(content) != fileHash {
		return false
	}
	return dependencyHash(scriptPath) == depHash
}

// pathKey returns the SHA-256 hex of the script path.
func pathKey(scriptPath string) string {
	h := sha256.Sum256([]byte(scriptPath))
	return hex.EncodeToString(h[:])
}

// dependencyHash hashes the content of dependency files next to the script
// (requirements.txt, pyproject.toml), so edits to them invalidate entries.
func dependencyHash(scriptPath string) string {
	h := sha256.New()
	dir := filepath.Dir(scriptPath)
	for _, name := range []string{"requirements.txt", "pyproject.toml"} {
		if content, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			h.Write(content)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
