package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load variables from .env files into the environment. Missing files are not an error.
func Load(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Debug().Msg("No .env file found (using environment variables)")
	}
}

// Return the value of key, or fallback when it is unset or blank.
func Get(key string, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	switch strings.ToUpper(v) {
	case "YES", "Y", "ON":
		return true
	case "NO", "N", "OFF":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
