package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
)

// Moderation policies. ModerationAnyUser lets any authenticated user
// delete answers and change question status; ModerationOwnerOnly
// restricts both operations to the resource's author.
const (
	ModerationAnyUser   = "any_user"
	ModerationOwnerOnly = "owner_only"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The signing secret is deliberately part
// of constructed configuration rather than a package constant, so tests
// can run with distinct secrets and rotation needs no code change.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	Port             string // HTTP port to listen on
	DBUser           string // database username
	DBPass           string // database password (optional)
	DBHost           string // database host address
	DBPort           string // database port number
	DBName           string // database name
	JWTSecret        string // secret used to sign JWTs, never hard-coded
	AccessTTLMin     int    // access token time-to-live in minutes
	BcryptCost       int    // bcrypt cost for password hashing
	ModerationPolicy string // any_user or owner_only
	EventMirror      bool   // mirror board events to the message broker
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// The token TTL defaults to 30 minutes; long-lived sessions are an
// explicit opt-in.
func Load() Config {
	cfg := Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"),
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		AccessTTLMin:     envInt("ACCESS_TOKEN_TTL_MIN", 30),
		BcryptCost:       envInt("BCRYPT_COST", 10),
		ModerationPolicy: envStr("MODERATION_POLICY", ModerationAnyUser),
		EventMirror:      envBool("EVENT_MIRROR_ENABLED", false),
	}
	if cfg.ModerationPolicy != ModerationAnyUser && cfg.ModerationPolicy != ModerationOwnerOnly {
		log.Fatalf("invalid MODERATION_POLICY: %q", cfg.ModerationPolicy)
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
