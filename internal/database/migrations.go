package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for view filtering and arrangement
		{"tasks", "idx_tasks_parent_id", "parent_id"},
		{"tasks", "idx_tasks_creator_id", "creator_id"},
		{"tasks", "idx_tasks_end_time", "end_time"},
		{"tasks", "idx_tasks_expected_time", "expected_time"},

		// Membership edge indexes
		{"task_members", "idx_task_members_task_id", "task_id"},
		{"task_members", "idx_task_members_user_id", "user_id"},

		// Meeting lookups by owning task and start order
		{"meetings", "idx_meetings_task_id", "task_id"},
		{"meetings", "idx_meetings_start_time", "start_time"},

		// Username resolution
		{"users", "idx_users_username", "username"},
	}

	for _, idx := range indexes {
		// Check if index already exists (postgres catalog)
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
