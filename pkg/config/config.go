package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	PostgresURL string

	// GridCells is the clustering grid size per axis for map mode.
	GridCells int
	// ListIncludesUnlocated keeps items without a location visible in
	// list mode responses.
	ListIncludesUnlocated bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("ENV", "development"),
		PostgresURL:           getEnv("POSTGRES_CONN_STR", ""),
		GridCells:             getEnvInt("FEED_GRID_CELLS", 8),
		ListIncludesUnlocated: getEnvBool("FEED_LIST_INCLUDES_UNLOCATED", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Invalid boolean for %s, using default %v", key, defaultValue)
	}
	return defaultValue
}
