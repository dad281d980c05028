package config

import "time"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Ranking: RankingConfig{
			Timezone:           "Asia/Colombo",
			FlushInterval:      60 * time.Second,
			TopN:               15,
			RequeueFailedSaves: false,
		},
		Store: StoreConfig{
			Backend:       BackendFile,
			DataDir:       "database/ranking",
			PostgresTable: "ranking_groups",
			RedisAddr:     "localhost:6379",
			RedisPrefix:   "ranking:group:",
		},
		Chat: ChatConfig{
			CommandPrefix:    ".",
			BridgeRetryDelay: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
