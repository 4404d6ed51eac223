package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mapscan-dev/mapscan-backend/internal/service"
)

// ResultStore handles PostgreSQL persistence of analysis results.
type ResultStore struct {
	db *sql.DB
}

func NewResultStore(db *sql.DB) *ResultStore {
	return &ResultStore{db: db}
}

// StoredResult is one persisted analysis run row.
type StoredResult struct {
	RunID      string    `json:"run_id"`
	Title      string    `json:"title"`
	User       string    `json:"user"`
	Detections int       `json:"detections"`
	CreatedAt  time.Time `json:"created_at"`
}

// Save persists a full analysis result as JSONB, keyed by run id.
// Re-running a stored run replaces the previous result.
func (s *ResultStore) Save(title, user string, res *service.Result) (*StoredResult, error) {
	if res == nil {
		return nil, fmt.Errorf("result is nil")
	}

	query := `
		INSERT INTO analysis_runs (run_id, title, user_label, graph, detections, bundles, notifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO UPDATE SET
			title = EXCLUDED.title,
			user_label = EXCLUDED.user_label,
			graph = EXCLUDED.graph,
			detections = EXCLUDED.detections,
			bundles = EXCLUDED.bundles,
			notifications = EXCLUDED.notifications,
			updated_at = NOW()
		RETURNING created_at
	`

	graphJSON, err := json.Marshal(res.Graph)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	detectionsJSON, err := json.Marshal(res.Detections)
	if err != nil {
		return nil, fmt.Errorf("marshal detections: %w", err)
	}
	bundlesJSON, err := json.Marshal(res.Bundles)
	if err != nil {
		return nil, fmt.Errorf("marshal bundles: %w", err)
	}
	notificationsJSON, err := json.Marshal(res.Notifications)
	if err != nil {
		return nil, fmt.Errorf("marshal notifications: %w", err)
	}

	stored := &StoredResult{
		RunID:      res.RunID,
		Title:      title,
		User:       user,
		Detections: len(res.Detections),
	}
	err = s.db.QueryRow(
		query,
		res.RunID,
		title,
		user,
		graphJSON,
		detectionsJSON,
		bundlesJSON,
		notificationsJSON,
	).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert analysis run: %w", err)
	}

	return stored, nil
}

// ListByUser returns run summaries for one user label, newest first.
func (s *ResultStore) ListByUser(user string, limit int) ([]StoredResult, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT run_id, title, user_label, jsonb_array_length(detections), created_at
		FROM analysis_runs
		WHERE user_label = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(query, user, limit)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	defer rows.Close()

	var out []StoredResult
	for rows.Next() {
		var r StoredResult
		if err := rows.Scan(&r.RunID, &r.Title, &r.User, &r.Detections, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
