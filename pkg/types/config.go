package types

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// PostgresConfig holds the relational database connection settings plus the
// list of tables this service owns. Schema validation only ever inspects
// owned tables; everything else is someone else's database.
type PostgresConfig struct {
	DSN         string   `yaml:"dsn" json:"dsn"`
	OwnedTables []string `yaml:"ownedTables,omitempty" json:"ownedTables,omitempty"`
}

// RedisConfig holds the cache/session store connection settings.
type RedisConfig struct {
	Addr      string `yaml:"addr" json:"addr"`
	Password  string `yaml:"password,omitempty" json:"-"`
	DB        int    `yaml:"db,omitempty" json:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty" json:"keyPrefix,omitempty"`
}

// RemoteServiceConfig points at another service's health surface. Remote
// services are validated through their health endpoints, never by reaching
// into their storage.
type RemoteServiceConfig struct {
	HealthURL string `yaml:"healthURL" json:"healthURL"`
}

// AlertConfig configures one alert sink.
type AlertConfig struct {
	Type AlertType `yaml:"type" json:"type"`
	URL  string    `yaml:"url,omitempty" json:"url,omitempty"`
	Path string    `yaml:"path,omitempty" json:"path,omitempty"`
}

// ProjectConfig is the parsed goldenpath.yaml.
type ProjectConfig struct {
	Environment EnvironmentType                     `yaml:"environment" json:"environment"`
	Server      ServerConfig                        `yaml:"server,omitempty" json:"server,omitempty"`
	Postgres    *PostgresConfig                     `yaml:"postgres,omitempty" json:"postgres,omitempty"`
	Redis       *RedisConfig                        `yaml:"redis,omitempty" json:"redis,omitempty"`
	Services    map[ServiceType]RemoteServiceConfig `yaml:"services,omitempty" json:"services,omitempty"`
	Alerts      []AlertConfig                       `yaml:"alerts,omitempty" json:"alerts,omitempty"`

	// Retry overrides are decoded by internal/config in a second pass so
	// duration strings like "500ms" can be parsed.
	Retry map[ServiceType]RetryPolicy `yaml:"-" json:"retry,omitempty"`
}
