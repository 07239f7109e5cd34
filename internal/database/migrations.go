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
		// Event indexes for tree walks and chart queries
		{"chart_events", "idx_chart_events_project_id", "project_id"},
		{"chart_events", "idx_chart_events_parent_id", "parent_id"},
		{"chart_events", "idx_chart_events_responsible_id", "responsible_id"},
		{"chart_events", "idx_chart_events_planned_start", "planned_start"},

		// Participant indexes for permission checks
		{"project_participants", "idx_participants_project_id", "project_id"},
		{"project_participants", "idx_participants_participant_id", "participant_id"},

		// Link indexes for dependency lookups
		{"event_links", "idx_event_links_predecessor_id", "predecessor_id"},
		{"event_links", "idx_event_links_follower_id", "follower_id"},

		// Comment index for target lookups
		{"universal_comments", "idx_comments_kind_object", "entity_kind, object_id"},
	}

	for _, idx := range indexes {
		// Check if index already exists
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
