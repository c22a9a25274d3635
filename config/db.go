package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func LoadEnv() {
	// Missing .env is fine; everything has a default or comes from the environment.
	_ = godotenv.Load()
}

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		Getenv("DB_USER", "admin"),
		Getenv("DB_PASSWORD", "12345678"),
		Getenv("DB_HOST", "127.0.0.1"),
		Getenv("DB_PORT", "3306"),
		Getenv("DB_NAME", "taskflowgo"),
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to database")
	}
	return db
}
