package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/repository"
	gormrepo "fitlife/challenge-api/internal/repository/gorm"
)

const testJWTSecret = "test-secret-not-for-production"

// newTestDB opens a fresh in-memory SQLite database for one test. Foreign
// keys are enabled so cascade behavior matches the Postgres schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gormrepo.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type testRepos struct {
	db          *gorm.DB
	users       repository.UserRepository
	challenges  repository.ChallengeRepository
	enrollments repository.EnrollmentRepository
	workouts    repository.WorkoutRepository
}

func newTestRepos(db *gorm.DB) testRepos {
	return testRepos{
		db:          db,
		users:       gormrepo.NewUserRepository(db),
		challenges:  gormrepo.NewChallengeRepository(db),
		enrollments: gormrepo.NewEnrollmentRepository(db),
		workouts:    gormrepo.NewWorkoutRepository(db),
	}
}

// fakeStorage records uploads and deletions in memory.
type fakeStorage struct {
	objects map[string]string // key -> content type
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]string)}
}

func (f *fakeStorage) Upload(_ context.Context, objectKey, contentType string, _ io.Reader) error {
	f.objects[objectKey] = contentType
	return nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	delete(f.objects, objectKey)
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// mustCreateUser seeds a user row directly through the repository.
func mustCreateUser(t *testing.T, repos testRepos, email, firstName, lastName string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:     email,
		Password:  "x",
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := repos.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

// mustCreateChallenge seeds a challenge row with the given creation time.
func mustCreateChallenge(t *testing.T, repos testRepos, creatorID uint, title string, start, end, createdAt time.Time) *domain.Challenge {
	t.Helper()
	challenge := &domain.Challenge{
		Title:     title,
		StartDate: start,
		EndDate:   end,
		CreatorID: creatorID,
		CreatedAt: createdAt,
	}
	if err := repos.db.Create(challenge).Error; err != nil {
		t.Fatalf("failed to seed challenge %s: %v", title, err)
	}
	return challenge
}
