package models

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"log"
)

var DB *gorm.DB

func ConnectDatabase(path string) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %s", err)
	}
	if err := db.AutoMigrate(
		&Project{},
		&ProjectFile{},
		&Membership{},
		&PendingInvite{},
		&CompilationOutput{},
	); err != nil {
		log.Fatalf("failed to auto migrate: %s", err)
	}
	DB = db
}
