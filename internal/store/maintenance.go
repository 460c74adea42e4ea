package store

import (
	"context"
	"time"
)

// StoreInfo summarizes the local task database.
type StoreInfo struct {
	SchemaVersion int            `json:"schema_version" yaml:"schema_version"`
	TotalTasks    int            `json:"total_tasks" yaml:"total_tasks"`
	DoneTasks     int            `json:"done_tasks" yaml:"done_tasks"`
	TasksByDev    map[string]int `json:"tasks_by_dev" yaml:"tasks_by_dev"`
}

// CleanupResult reports which done tasks were (or would be) removed.
type CleanupResult struct {
	TaskIDs []string `json:"task_ids" yaml:"task_ids"`
	Count   int      `json:"count" yaml:"count"`
	DryRun  bool     `json:"dry_run" yaml:"dry_run"`
}

// StoreInfo returns schema version and task counts.
func (s *Store) StoreInfo(ctx context.Context) (*StoreInfo, error) {
	version, err := currentVersion(s.db)
	if err != nil {
		return nil, err
	}

	info := &StoreInfo{SchemaVersion: version, TasksByDev: map[string]int{}}
	rows, err := s.db.QueryContext(ctx, "SELECT dev, done, COUNT(*) FROM tasks GROUP BY dev, done")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			dev   string
			done  bool
			count int
		)
		if err := rows.Scan(&dev, &done, &count); err != nil {
			return nil, err
		}
		info.TasksByDev[dev] += count
		info.TotalTasks += count
		if done {
			info.DoneTasks += count
		}
	}
	return info, rows.Err()
}

// CleanupDoneTasks deletes done tasks last updated before cutoff. With dryRun
// it only reports the candidates.
func (s *Store) CleanupDoneTasks(ctx context.Context, cutoff time.Time, dryRun bool) (*CleanupResult, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM tasks WHERE done = 1 AND updated_at < ? ORDER BY updated_at, id",
		formatTime(cutoff))
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &CleanupResult{TaskIDs: ids, Count: len(ids), DryRun: dryRun}
	if dryRun || len(ids) == 0 {
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
