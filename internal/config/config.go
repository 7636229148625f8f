package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses the inventory durations
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required infrastructure values are enforced by
// must(); the inventory knobs are optional with sensible defaults so a bare
// environment still runs.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // secret used to verify caller tokens
	HoldTTL        time.Duration // default seat hold duration
	ReservationCap int           // per-event cap on a caller's active seats
	SweepInterval  time.Duration // expiry sweep interval
	SweepJitter    time.Duration // random extra delay added to each sweep
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required variables cause the program to exit with a
// fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),      // environment (dev/test/prod)
		Port:           must("APP_PORT"),     // port to bind the HTTP server
		DBUser:         must("DB_USER"),      // database user
		DBPass:         os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:         must("DB_HOST"),      // database host
		DBPort:         must("DB_PORT"),      // database port
		DBName:         must("DB_NAME"),      // database name
		JWTSecret:      must("JWT_SECRET"),   // secret used to verify caller tokens
		HoldTTL:        time.Duration(envInt("HOLD_TTL_MIN", 15)) * time.Minute,
		ReservationCap: envInt("RESERVATION_CAP", 2),
		SweepInterval:  time.Duration(envInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,
		SweepJitter:    time.Duration(envInt("SWEEP_JITTER_SEC", 5)) * time.Second,
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
