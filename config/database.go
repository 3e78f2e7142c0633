package config

import (
	"os"

	"github.com/spider-mind/spider-mind-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Database *gorm.DB

// Connect opens the database and migrates the schema. DB_URL selects
// Postgres; without it a local sqlite file is used for development.
func Connect() error {
	var err error
	dbURL := os.Getenv("DB_URL")
	if dbURL != "" {
		Database, err = gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	} else {
		Database, err = gorm.Open(sqlite.Open("spider-mind.db"), &gorm.Config{})
	}
	if err != nil {
		panic("failed to connect database")
	}

	err = Database.AutoMigrate(&models.User{}, &models.MindMap{}, &models.MindMapNode{})
	if err != nil {
		panic("failed to auto migrate database")
	}

	return nil
}
