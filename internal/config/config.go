package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by DELGAME_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("DELGAME_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

// NumAgents returns the total agent count. Defaults to 8.
func NumAgents() int {
	n, err := strconv.Atoi(os.Getenv("NUM_AGENTS"))
	if err != nil || n < 3 {
		return 8
	}
	return n
}

// NumBad returns the number of bad agents. Defaults to 2.
func NumBad() int {
	n, err := strconv.Atoi(os.Getenv("NUM_BAD"))
	if err != nil || n < 1 {
		return 2
	}
	return n
}

// Seed returns the simulation seed. Defaults to 42.
func Seed() int64 {
	s, err := strconv.ParseInt(os.Getenv("SEED"), 10, 64)
	if err != nil {
		return 42
	}
	return s
}

// TickSeconds returns the sim-time units fed to the world per tick.
// Defaults to 0.5.
func TickSeconds() float64 {
	t, err := strconv.ParseFloat(os.Getenv("TICK_SECONDS"), 64)
	if err != nil || t <= 0 {
		return 0.5
	}
	return t
}

// MeetingIntervalSeconds returns the sim-time gap between automatic
// meetings. Zero disables them. Defaults to 45.
func MeetingIntervalSeconds() float64 {
	t, err := strconv.ParseFloat(os.Getenv("MEETING_INTERVAL_SECONDS"), 64)
	if err != nil || t < 0 {
		return 45
	}
	return t
}

// MaxTurns bounds a headless simulation run. Defaults to 10000.
func MaxTurns() int {
	n, err := strconv.Atoi(os.Getenv("MAX_TURNS"))
	if err != nil || n <= 0 {
		return 10000
	}
	return n
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
