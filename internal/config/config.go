package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBDriver   string // sqlite | postgres
	DBDSN      string
	MediaDir   string
	LogFile    string
	AdminEmail string
	AdminPass  string
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := Config{
		Port:       getenv("PORT", "8080"),
		DBDriver:   getenv("DB_DRIVER", "sqlite"),
		DBDSN:      getenv("DB_DSN", "tillbook.db"),
		MediaDir:   getenv("MEDIA_DIR", "./web/media"),
		LogFile:    getenv("LOG_FILE", "./tillbook.log"),
		AdminEmail: getenv("ADMIN_EMAIL", "admin@tillbook.test"),
		AdminPass:  getenv("ADMIN_PASSWORD", "Passw0rd!"),
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.MediaDir, cfg.LogFile)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
