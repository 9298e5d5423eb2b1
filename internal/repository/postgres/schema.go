package postgres

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL UNIQUE,
		role       TEXT NOT NULL CHECK (role IN ('swimmer', 'coach')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS training_log (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES profiles(id),
		training_date    DATE NOT NULL,
		session_type     TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		heart_rate       INTEGER,
		effort_color     TEXT NOT NULL,
		complexity       INTEGER NOT NULL,
		details          TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS training_log_user_date ON training_log (user_id, training_date)`,
	`CREATE TABLE IF NOT EXISTS resting_hr_log (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL REFERENCES profiles(id),
		entry_date         DATE NOT NULL,
		resting_heart_rate INTEGER NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL,
		updated_at         TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, entry_date)
	)`,
	`CREATE TABLE IF NOT EXISTS body_metrics_log (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES profiles(id),
		entry_date DATE NOT NULL,
		height_cm  DOUBLE PRECISION,
		weight_kg  DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS body_metrics_log_user_date ON body_metrics_log (user_id, entry_date)`,
	`CREATE TABLE IF NOT EXISTS weekly_comments (
		swimmer_id TEXT NOT NULL REFERENCES profiles(id),
		week_start DATE NOT NULL,
		coach_id   TEXT NOT NULL DEFAULT '',
		comment    TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (swimmer_id, week_start)
	)`,
	`CREATE TABLE IF NOT EXISTS technique_plans (
		user_id    TEXT PRIMARY KEY REFERENCES profiles(id),
		data       JSONB,
		updated_by TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS goals_yearly (
		user_id     TEXT NOT NULL REFERENCES profiles(id),
		season_year INTEGER NOT NULL,
		goal_text   TEXT NOT NULL DEFAULT '',
		updated_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, season_year)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		user_id             TEXT PRIMARY KEY REFERENCES profiles(id),
		selected_swimmer_id TEXT NOT NULL DEFAULT '',
		view_mode           TEXT NOT NULL DEFAULT 'week',
		reference_date      TEXT NOT NULL DEFAULT '',
		updated_at          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS magic_links (
		id          TEXT PRIMARY KEY,
		profile_id  TEXT NOT NULL REFERENCES profiles(id),
		email       TEXT NOT NULL,
		secret_hash TEXT NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		used_at     TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS exports (
		id           TEXT PRIMARY KEY,
		swimmer_id   TEXT NOT NULL REFERENCES profiles(id),
		requested_by TEXT NOT NULL,
		kind         TEXT NOT NULL,
		scope        TEXT NOT NULL,
		object_key   TEXT NOT NULL UNIQUE,
		file_name    TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size         BIGINT NOT NULL,
		row_count    INTEGER NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS exports_swimmer_created ON exports (swimmer_id, created_at DESC)`,
}
