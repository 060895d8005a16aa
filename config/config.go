package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port          string
	FrontendURL   string // also the allowed websocket origin; "*" allows any
	GridWidth     int
	GridHeight    int
	WinScore      int
	PickupCount   int
	StaleAfter    time.Duration
	SweepInterval time.Duration
	GracePeriod   time.Duration
	BroadcastHz   int
	LogLevel      string
}

func Defaults() Config {
	return Config{
		Port:          "3001",
		FrontendURL:   "http://localhost:3000",
		GridWidth:     20,
		GridHeight:    15,
		WinScore:      10,
		PickupCount:   3,
		StaleAfter:    10 * time.Second,
		SweepInterval: 5 * time.Second,
		GracePeriod:   time.Second,
		BroadcastHz:   2,
		LogLevel:      "info",
	}
}

// InitConfig loads .env into the process environment. A missing file is fine.
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("no .env file, using process environment")
			return
		}
		log.Warn("error loading environment variables", "err", err)
		return
	}

	log.Info("loaded environment variables from .env")
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil

}

// Load reads the environment on top of Defaults. Unset variables keep their
// default; set but unparsable ones are an error.
func Load() (Config, error) {
	c := Defaults()
	var errs []error

	str := func(key string, dst *string) {
		if v, err := GetEnvVariable(key); err == nil {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v, err := GetEnvVariable(key)
		if err != nil {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
	dur := func(key string, dst *time.Duration) {
		v, err := GetEnvVariable(key)
		if err != nil {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}

	str("PORT", &c.Port)
	str("FRONTEND_URL", &c.FrontendURL)
	str("LOG_LEVEL", &c.LogLevel)
	num("GRID_WIDTH", &c.GridWidth)
	num("GRID_HEIGHT", &c.GridHeight)
	num("WIN_SCORE", &c.WinScore)
	num("PICKUP_COUNT", &c.PickupCount)
	num("BROADCAST_HZ", &c.BroadcastHz)
	dur("STALE_AFTER", &c.StaleAfter)
	dur("SWEEP_INTERVAL", &c.SweepInterval)
	dur("GRACE_PERIOD", &c.GracePeriod)

	if c.StaleAfter <= 0 || c.SweepInterval <= 0 || c.GracePeriod <= 0 {
		errs = append(errs, fmt.Errorf("durations must be positive"))
	}
	if c.BroadcastHz < 0 {
		errs = append(errs, fmt.Errorf("BROADCAST_HZ must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
