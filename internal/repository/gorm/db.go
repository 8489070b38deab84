package gorm

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fitlife/challenge-api/internal/domain"
)

// ConnectDB opens a Postgres connection through GORM. TranslateError is
// enabled so unique-constraint violations surface as gorm.ErrDuplicatedKey
// regardless of dialect.
func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all entities. Child rows cascade
// on parent deletion via the foreign key constraints declared on the models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Challenge{},
		&domain.ChallengeEnrollment{},
		&domain.WorkoutPlan{},
		&domain.WorkoutSplit{},
		&domain.Exercise{},
	)
}
