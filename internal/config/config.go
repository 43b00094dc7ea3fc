package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all server configuration, loaded from the environment.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	MongoURI  string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB   string `envconfig:"MONGO_DB" default:"sparkmatch"`
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	JWTSecret    string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	HostUsername string `envconfig:"HOST_USERNAME" default:"admin"`
	HostPassword string `envconfig:"HOST_PASSWORD" default:"admin"`

	LobbyDuration    time.Duration `envconfig:"LOBBY_DURATION" default:"60s"`
	DateDuration     time.Duration `envconfig:"DATE_DURATION" default:"180s"`
	FeedbackDuration time.Duration `envconfig:"FEEDBACK_DURATION" default:"60s"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
