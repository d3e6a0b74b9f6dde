package config

import "os"

// Config holds everything read from the environment at process start. There is
// no runtime reconfiguration; the struct is built once in main and in tests.
type Config struct {
	Host string
	Port string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool

	UserJWTSecret  string
	AdminJWTSecret string
	ArcadeAPIKey   string
}

func Load() Config {
	return Config{
		Host:           getenv("HOST", "127.0.0.1"),
		Port:           getenv("PORT", "3000"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBSSLMode:      getenv("DB_SSLMODE", "disable"),
		AutoMigrate:    os.Getenv("DB_AUTO_MIGRATE") == "true",
		UserJWTSecret:  os.Getenv("USER_JWT_SECRET"),
		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		ArcadeAPIKey:   os.Getenv("ARCADE_API_KEY"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
