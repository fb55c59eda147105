package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Neo4j    Neo4jConfig
	Postgres PostgresConfig
	LLM      LLMConfig
	Datasets DatasetConfig
	Session  SessionConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// Neo4jConfig holds graph database configuration
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
	Timeout  int // seconds
}

// PostgresConfig holds the optional search/feedback log store configuration.
// An empty DSN disables logging entirely.
type PostgresConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
}

// LLMConfig holds the OpenAI-compatible chat API configuration
type LLMConfig struct {
	APIKey    string
	APIBase   string
	Model     string
	MaxTokens int
	Timeout   int // seconds
	Enabled   bool
}

// DatasetConfig holds auxiliary dataset fetcher configuration
type DatasetConfig struct {
	OpenMeteoURL  string
	OverpassURL   string
	TreeWFSURL    string
	Timeout       int // seconds
	WeatherCap    int
	TransportCap  int
	VegetationCap int
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	CookieName string
	MaxAge     int // seconds
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "neo4j://localhost:7687"),
			Username: getEnv("NEO4J_USERNAME", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
			Database: getEnv("NEO4J_DATABASE", "neo4j"),
			Timeout:  getEnvAsInt("NEO4J_TIMEOUT", 30),
		},
		Postgres: PostgresConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		LLM: LLMConfig{
			APIKey:    getEnv("LLM_API_KEY", ""),
			APIBase:   getEnv("LLM_API_BASE", "https://api.openai.com/v1"),
			Model:     getEnv("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvAsInt("LLM_MAX_TOKENS", 4096),
			Timeout:   getEnvAsInt("LLM_TIMEOUT", 60),
			Enabled:   getEnv("LLM_API_KEY", "") != "",
		},
		Datasets: DatasetConfig{
			OpenMeteoURL:  getEnv("OPENMETEO_URL", "https://api.open-meteo.com/v1/forecast"),
			OverpassURL:   getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			TreeWFSURL:    getEnv("TREE_WFS_URL", "https://data.wien.gv.at/daten/geo?service=WFS&request=GetFeature&version=1.1.0&typeName=ogdwien:BAUMKATOGD&srsName=EPSG:4326&outputFormat=json"),
			Timeout:       getEnvAsInt("DATASET_TIMEOUT", 15),
			WeatherCap:    getEnvAsInt("DATASET_WEATHER_CAP", 50),
			TransportCap:  getEnvAsInt("DATASET_TRANSPORT_CAP", 200),
			VegetationCap: getEnvAsInt("DATASET_VEGETATION_CAP", 500),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "sid"),
			MaxAge:     getEnvAsInt("SESSION_MAX_AGE", 6*3600),
		},
	}

	return cfg, nil
}

// Addr returns the host:port pair the server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
