package connection

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
)

type Config struct {
	Port                 string
	GinMode              string
	Store                string
	FirestoreCredentials string
	FirestoreProjectID   string
	FirestoreCollection  string
	DatabaseURL          string
	JWTSecret            string
	CORSAllowOrigins     []string
}

// LoadConfig reads .env, when present, and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using OS environment")
	}

	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		GinMode:              getenv("GIN_MODE", "release"),
		Store:                strings.ToLower(getenv("TASK_STORE", StoreMemory)),
		FirestoreCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_1"),
		FirestoreProjectID:   os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreCollection:  getenv("FIRESTORE_COLLECTION", "Tasks"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET_KEY"),
	}
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, o)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected store has what it needs.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreFirestore:
		if c.FirestoreCredentials == "" && c.FirestoreProjectID == "" {
			return fmt.Errorf("firestore store needs GOOGLE_APPLICATION_CREDENTIALS_1 or FIRESTORE_PROJECT_ID")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("postgres store needs DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown TASK_STORE %q", c.Store)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
