package docstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/tqgen/tqgen/form"
)

// Event is one recorded status transition.
type Event struct {
	Offset     int64
	DocumentID string
	From       form.Status
	To         form.Status
	TotalScore float64
	DataJSON   string
	CreatedAt  int64
}

// EventLog appends status transitions to an append-only table. Wire a
// controller's OnTransition callback at it to get an audit trail.
type EventLog struct{ db *sql.DB }

func NewEventLog(db *sql.DB) *EventLog { return &EventLog{db: db} }

func (l *EventLog) Append(ctx context.Context, e Event) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO transition_log (document_id, from_status, to_status, total_score, data, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		e.DocumentID, string(e.From), string(e.To), e.TotalScore, e.DataJSON, time.Now().Unix())
	return err
}

// List returns a document's transitions in append order.
func (l *EventLog) List(ctx context.Context, documentID string) ([]Event, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT "offset", document_id, from_status, to_status, total_score, data, created_at
		 FROM transition_log WHERE document_id=$1 ORDER BY "offset"`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.DocumentID, &e.From, &e.To, &e.TotalScore, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
