// Package sqlite implements persist.Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/havenlabs/aria-go-sdk/core"
	"github.com/havenlabs/aria-go-sdk/persist"
)

// Store is a SQLite-backed persist.Store.
type Store struct {
	db *sql.DB
}

// New opens or creates a SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS traits (
		user_id    TEXT PRIMARY KEY,
		vector     TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memories (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		content       TEXT NOT NULL,
		class         TEXT NOT NULL,
		importance    REAL NOT NULL,
		created_at    TEXT NOT NULL,
		last_accessed TEXT NOT NULL,
		access_count  INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_memories_user_class ON memories(user_id, class);
	CREATE INDEX IF NOT EXISTS idx_memories_importance ON memories(user_id, importance DESC);

	CREATE TABLE IF NOT EXISTS transcript (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		ts         TEXT NOT NULL,
		emotion    TEXT,
		importance TEXT NOT NULL DEFAULT 'medium'
	);
	CREATE INDEX IF NOT EXISTS idx_transcript_user ON transcript(user_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) PutTraits(ctx context.Context, userID string, tv core.TraitVector) error {
	raw, err := json.Marshal(tv)
	if err != nil {
		return fmt.Errorf("marshal traits: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO traits (user_id, vector, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET vector = excluded.vector, updated_at = excluded.updated_at`,
		userID, string(raw), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put traits: %w", err)
	}
	return nil
}

func (s *Store) GetTraits(ctx context.Context, userID string) (core.TraitVector, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT vector FROM traits WHERE user_id = ?`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return core.TraitVector{}, persist.ErrNotFound
	}
	if err != nil {
		return core.TraitVector{}, fmt.Errorf("get traits: %w", err)
	}
	var tv core.TraitVector
	if err := json.Unmarshal([]byte(raw), &tv); err != nil {
		return core.TraitVector{}, fmt.Errorf("unmarshal traits: %w", err)
	}
	return tv, nil
}

func (s *Store) PutMemory(ctx context.Context, e core.MemoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memories (id, user_id, content, class, importance, created_at, last_accessed, access_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			class = excluded.class,
			importance = excluded.importance,
			last_accessed = excluded.last_accessed,
			access_count = excluded.access_count`,
		e.ID, e.UserID, e.Content, string(e.Class), e.Importance,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
		e.LastAccessed.UTC().Format(time.RFC3339Nano),
		e.AccessCount)
	if err != nil {
		return fmt.Errorf("put memory: %w", err)
	}
	return nil
}

func (s *Store) QueryMemories(ctx context.Context, userID string, class core.MemoryClass, limit int) ([]core.MemoryEntry, error) {
	order := "id DESC" // ULIDs: creation order, newest first
	if class == core.LongTerm {
		order = "importance DESC, last_accessed DESC"
	}
	q := fmt.Sprintf(`
		SELECT id, user_id, content, class, importance, created_at, last_accessed, access_count
		FROM memories WHERE user_id = ? AND class = ? ORDER BY %s`, order)
	args := []interface{}{userID, string(class)}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var out []core.MemoryEntry
	for rows.Next() {
		var e core.MemoryEntry
		var class, createdAt, lastAccessed string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &class, &e.Importance, &createdAt, &lastAccessed, &e.AccessCount); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		e.Class = core.MemoryClass(class)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		e.LastAccessed, _ = time.Parse(time.RFC3339Nano, lastAccessed)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) AppendTranscript(ctx context.Context, e core.TranscriptEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcript (id, user_id, role, content, ts, emotion, importance)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, string(e.Role), e.Content,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		string(e.Emotion), string(e.Importance))
	if err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

func (s *Store) RecentTranscript(ctx context.Context, userID string, limit int) ([]core.TranscriptEntry, error) {
	q := `
		SELECT id, user_id, role, content, ts, emotion, importance
		FROM transcript WHERE user_id = ? ORDER BY id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("recent transcript: %w", err)
	}
	defer rows.Close()

	var out []core.TranscriptEntry
	for rows.Next() {
		var e core.TranscriptEntry
		var role, ts, emotion, importance string
		if err := rows.Scan(&e.ID, &e.UserID, &role, &e.Content, &ts, &emotion, &importance); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		e.Role = core.Role(role)
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		e.Emotion = core.Emotion(emotion)
		e.Importance = core.ImportanceTag(importance)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows come back newest-first; callers get chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *Store) Close() error { return s.db.Close() }
