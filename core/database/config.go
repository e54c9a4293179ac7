package database

// Config holds settings for the embedded sqlite store.
type Config struct {
	// Path points at the database file; the parent directory is created on connect.
	Path string `yaml:"path" envconfig:"DB_PATH"`
	// BusyTimeoutMS bounds how long a writer waits on a locked database.
	BusyTimeoutMS int `yaml:"busy_timeout_ms" envconfig:"DB_BUSY_TIMEOUT_MS"`
	// MigrationsDir overrides the default ./migrations source directory.
	MigrationsDir string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

const defaultBusyTimeoutMS = 5000

func (c Config) busyTimeout() int {
	if c.BusyTimeoutMS <= 0 {
		return defaultBusyTimeoutMS
	}
	return c.BusyTimeoutMS
}
