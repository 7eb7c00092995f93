package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Prod            bool
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	AccessTTLMin    int
	RefreshTTLDays  int
	RedisAddr       string
	RateLimitPerMin int
	RabbitURL       string
	EventsExchange  string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            getenv("APP_PORT", "8080"),
		Prod:            getenv("APP_ENV", "dev") == "prod",
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "loanapp"),
		JWTSecret:       getenv("JWT", "default_secret_key"),
		AccessTTLMin:    atoi(getenv("ACCESS_TTL_MIN", "15")),
		RefreshTTLDays:  atoi(getenv("REFRESH_TTL_DAYS", "14")),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "5")),
		RabbitURL:       getenv("RABBIT_URL", ""),
		EventsExchange:  getenv("EVENTS_EXCHANGE", "portal.events"),
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
