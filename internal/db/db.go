package db

import (
	"fmt"

	"reflekt/internal/auth"
	"reflekt/internal/jobs"
	"reflekt/internal/reflection"
	"reflekt/internal/state"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&state.StateEntry{},
		&state.Pattern{},
		&reflection.Reflection{},
		&jobs.Job{},
		&auth.User{},
	); err != nil {
		return err
	}

	// Tag filter on reflections (GIN for text[])
	if err := gdb.Exec(`create index if not exists idx_reflections_tags on reflections using gin (tags);`).Error; err != nil {
		return err
	}

	// Query-path indexes: history by (user, key, time), day view by (user, date),
	// newest-pattern-per-key, job scheduling.
	stmts := []string{
		`create index if not exists idx_states_user_key_ts on state_entries(user_id, state_key, timestamp_millis);`,
		`create index if not exists idx_states_user_date on state_entries(user_id, date);`,
		`create index if not exists idx_patterns_user_key_id on patterns(user_id, state_key, id desc);`,
		`create index if not exists idx_reflections_user_ts on reflections(user_id, timestamp_millis desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
