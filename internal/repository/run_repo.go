package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	runKeyPrefix     = "mapscan:run:"       // Key prefix for run metadata: mapscan:run:{run_id}
	userRunSetPrefix = "mapscan:user:"      // Set of run IDs per user label: mapscan:user:{user}
	runTTL           = 7 * 24 * time.Hour   // TTL for run metadata (7 days)
)

var ErrRunNotFound = errors.New("analysis run not found")

// AnalysisRun is the lightweight run record kept in Redis so the API can
// list and look up runs without touching the artifact store.
type AnalysisRun struct {
	RunID         string    `json:"run_id"`
	User          string    `json:"user"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	Detections    int       `json:"detections"`
	Bundles       int       `json:"bundles"`
	Notifications int       `json:"notifications"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RunRepository handles Redis operations for analysis runs.
type RunRepository struct {
	client *redis.Client
	ctx    context.Context
}

func NewRunRepository(client *redis.Client) *RunRepository {
	return &RunRepository{
		client: client,
		ctx:    context.Background(),
	}
}

// Create stores a new run and indexes it under its user label.
func (r *RunRepository) Create(run *AnalysisRun) error {
	if run.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = time.Now()
	}

	runData, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run data: %w", err)
	}

	// Use pipeline for atomic operations
	pipe := r.client.Pipeline()
	pipe.Set(r.ctx, r.runKey(run.RunID), runData, runTTL)
	pipe.SAdd(r.ctx, r.userRunSetKey(run.User), run.RunID)
	pipe.Expire(r.ctx, r.userRunSetKey(run.User), runTTL)

	if _, err := pipe.Exec(r.ctx); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetByRunID retrieves a run by its ID.
func (r *RunRepository) GetByRunID(runID string) (*AnalysisRun, error) {
	data, err := r.client.Get(r.ctx, r.runKey(runID)).Result()
	if err == redis.Nil {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var run AnalysisRun
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run data: %w", err)
	}
	return &run, nil
}

// ListByUser retrieves all run IDs recorded for a user label.
func (r *RunRepository) ListByUser(user string) ([]string, error) {
	runIDs, err := r.client.SMembers(r.ctx, r.userRunSetKey(user)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for user: %w", err)
	}
	return runIDs, nil
}

// Delete removes a run and its user index entry.
func (r *RunRepository) Delete(runID string) error {
	run, err := r.GetByRunID(runID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(r.ctx, r.runKey(runID))
	pipe.SRem(r.ctx, r.userRunSetKey(run.User), runID)

	if _, err := pipe.Exec(r.ctx); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

func (r *RunRepository) runKey(runID string) string {
	return runKeyPrefix + runID
}

func (r *RunRepository) userRunSetKey(user string) string {
	return userRunSetPrefix + user
}
