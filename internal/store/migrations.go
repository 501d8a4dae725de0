package store

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "initial_schema",
		sql: `
			-- Checkpoints table: one row per explicit snapshot of RNG and
			-- scheduler state, never written to automatically.
			CREATE TABLE checkpoints (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				rng_state_json TEXT NOT NULL,
				scheduler_state_json TEXT NOT NULL
			);
			CREATE INDEX idx_checkpoints_created ON checkpoints(created_at);
		`,
	},
}
