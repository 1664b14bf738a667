package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/betterlearn/betterlearn-api/srs"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Environment struct {
	Mode string
	Port string

	DBDriver   string
	DBURL      string
	SQLitePath string

	AllowedOrigins []string
	RequestTimeout time.Duration

	GeneratorURL     string
	GeneratorTimeout time.Duration
	PlaceholderCards int

	RedisAddr    string
	CardCacheTTL time.Duration

	AuthSecret   string
	AuthIssuer   string
	AuthAudience string

	Policy srs.Policy
}

func (e Environment) IsProduction() bool {
	return strings.EqualFold(e.Mode, "production") || strings.EqualFold(e.Mode, "prod")
}

// AuthEnabled reports whether bearer tokens are required.
func (e Environment) AuthEnabled() bool {
	return e.AuthSecret != ""
}

// Load reads the process environment. Call godotenv before Load to pick up a
// local .env file.
func Load() (Environment, error) {
	env := Environment{
		Mode:           envString("APP_ENV", "development"),
		Port:           envString("PORT", "8000"),
		DBURL:          envString("DB_URL", ""),
		SQLitePath:     envString("SQLITE_PATH", "data/betterlearn.db"),
		AllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		GeneratorURL:   envString("GENERATOR_URL", ""),
		RedisAddr:      envString("REDIS_ADDR", ""),
		AuthSecret:     envString("AUTH_JWT_SECRET", ""),
		AuthIssuer:     envString("AUTH_ISSUER", ""),
		AuthAudience:   envString("AUTH_AUDIENCE", ""),
	}

	defaultDriver := DriverSQLite
	if env.DBURL != "" {
		defaultDriver = DriverPostgres
	}
	env.DBDriver = strings.ToLower(envString("DB_DRIVER", defaultDriver))

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	env.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", 10*time.Second)
	collect(err)
	env.GeneratorTimeout, err = envDuration("GENERATOR_TIMEOUT", 30*time.Second)
	collect(err)
	env.CardCacheTTL, err = envDuration("CARD_CACHE_TTL", time.Hour)
	collect(err)
	env.PlaceholderCards, err = envInt("PLACEHOLDER_CARDS", 5)
	collect(err)

	p := srs.DefaultPolicy
	p.SeedInterval, err = envFloat("SRS_SEED_INTERVAL_DAYS", p.SeedInterval)
	collect(err)
	p.MinInterval, err = envFloat("SRS_MIN_INTERVAL_DAYS", p.MinInterval)
	collect(err)
	p.MaxInterval, err = envFloat("SRS_MAX_INTERVAL_DAYS", p.MaxInterval)
	collect(err)
	p.GreatGrowth, err = envFloat("SRS_GREAT_GROWTH", p.GreatGrowth)
	collect(err)
	p.GoodGrowth, err = envFloat("SRS_GOOD_GROWTH", p.GoodGrowth)
	collect(err)
	p.GreatThreshold, err = envFloat("SRS_GREAT_THRESHOLD", p.GreatThreshold)
	collect(err)
	p.GoodThreshold, err = envFloat("SRS_GOOD_THRESHOLD", p.GoodThreshold)
	collect(err)
	env.Policy = p

	if len(errs) > 0 {
		return Environment{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	if err := env.validate(); err != nil {
		return Environment{}, fmt.Errorf("config: %w", err)
	}
	return env, nil
}

func (e Environment) validate() error {
	switch e.DBDriver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if e.DBURL == "" {
			return errors.New("DB_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", e.DBDriver)
	}
	if e.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if e.AuthEnabled() && (e.AuthIssuer == "" || e.AuthAudience == "") {
		return errors.New("AUTH_ISSUER and AUTH_AUDIENCE are required when AUTH_JWT_SECRET is set")
	}
	return e.Policy.Validate()
}
