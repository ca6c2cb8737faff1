package docstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tqgen/tqgen/form"
)

// ErrNotFound is returned when a document id has no row.
var ErrNotFound = errors.New("docstore: document not found")

// Document is one persisted form document snapshot.
type Document struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Mode       form.Mode      `json:"mode"`
	Status     form.Status    `json:"status"`
	Sections   []form.Section `json:"sections"`
	TotalScore float64        `json:"total_score"`
	CreatedAt  int64          `json:"created_at"`
	UpdatedAt  int64          `json:"updated_at"`
}

// Store persists document snapshots. Sections travel as a JSON column and
// are re-validated on every load: one malformed entry fails the whole load.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// SaveDocument upserts a snapshot.
func (s *Store) SaveDocument(ctx context.Context, d Document) error {
	buf, err := form.MarshalSections(d.Sections)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO documents (id,title,mode,status,sections_json,total_score,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			title=EXCLUDED.title,
			mode=EXCLUDED.mode,
			status=EXCLUDED.status,
			sections_json=EXCLUDED.sections_json,
			total_score=EXCLUDED.total_score,
			updated_at=EXCLUDED.updated_at`,
		d.ID, d.Title, string(d.Mode), string(d.Status), string(buf), d.TotalScore, now, now)
	return err
}

// LoadDocument reads one snapshot back, validating the stored collection.
func (s *Store) LoadDocument(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,mode,status,sections_json,total_score,created_at,updated_at
		FROM documents WHERE id=$1`, id)
	var d Document
	var sjson string
	if err := row.Scan(&d.ID, &d.Title, &d.Mode, &d.Status, &sjson, &d.TotalScore, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	sections, err := form.LoadSections([]byte(sjson))
	if err != nil {
		return Document{}, err
	}
	d.Sections = sections
	return d, nil
}

// ListDocuments returns snapshot headers (no sections), newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,mode,status,total_score,created_at,updated_at
		FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Mode, &d.Status, &d.TotalScore, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDocument removes a snapshot and its transition log entries.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transition_log WHERE document_id=$1`, id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
