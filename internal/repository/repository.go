package repository

import (
	"context"

	"fitlife/challenge-api/internal/domain"
)

// Error constants for the repository layer. Services translate these into
// their own error kinds; handlers never see them directly.
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ChallengeRepository defines the interface for interacting with challenge data.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *domain.Challenge) error
	GetByID(ctx context.Context, id uint) (*domain.Challenge, error)
	// List returns a page of challenges ordered newest-first with the
	// creator association populated. A page past the data is an empty
	// slice, not an error.
	List(ctx context.Context, offset, limit int) ([]domain.Challenge, error)
	// ListByWindow returns challenges filtered by how their start/end dates
	// relate to now, newest-first, with the creator populated.
	ListByWindow(ctx context.Context, window domain.ChallengeWindow) ([]domain.Challenge, error)
	// ListByCreator returns challenges created by the given user with the
	// creator and each enrollment's user populated.
	ListByCreator(ctx context.Context, creatorID uint) ([]domain.Challenge, error)
	Update(ctx context.Context, challenge *domain.Challenge) error
	Delete(ctx context.Context, id uint) error
	// CountEnrollments reports the participant count per challenge ID.
	// Challenges with no participants are absent from the map.
	CountEnrollments(ctx context.Context, challengeIDs []uint) (map[uint]int64, error)
}

// EnrollmentRepository defines the interface for interacting with
// challenge participation records.
type EnrollmentRepository interface {
	// Create inserts the enrollment. A second insert for the same
	// (user, challenge) pair fails with ErrConflict via the composite
	// primary key, even under concurrent joins.
	Create(ctx context.Context, enrollment *domain.ChallengeEnrollment) error
	Get(ctx context.Context, userID, challengeID uint) (*domain.ChallengeEnrollment, error)
	Delete(ctx context.Context, userID, challengeID uint) error
	Update(ctx context.Context, enrollment *domain.ChallengeEnrollment) error
	// ListByChallenge returns a page of enrollments newest-joined-first
	// with the user populated.
	ListByChallenge(ctx context.Context, challengeID uint, offset, limit int) ([]domain.ChallengeEnrollment, error)
	CountByChallenge(ctx context.Context, challengeID uint) (int64, error)
	// ListByUser returns all enrollments of a user with the challenge populated.
	ListByUser(ctx context.Context, userID uint) ([]domain.ChallengeEnrollment, error)
}

// WorkoutRepository defines the interface for interacting with the
// plan → split → exercise tree.
type WorkoutRepository interface {
	// CreatePlan inserts the plan together with any nested splits and
	// exercises as one logical operation.
	CreatePlan(ctx context.Context, plan *domain.WorkoutPlan) error
	GetPlanByID(ctx context.Context, id uint) (*domain.WorkoutPlan, error)
	GetPlanByTitle(ctx context.Context, title string) (*domain.WorkoutPlan, error)
	ListPlansByUser(ctx context.Context, userID uint) ([]domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, plan *domain.WorkoutPlan) error
	DeletePlan(ctx context.Context, id uint) error

	// CreateSplit inserts the split together with any nested exercises.
	CreateSplit(ctx context.Context, split *domain.WorkoutSplit) error
	GetSplitByID(ctx context.Context, id uint) (*domain.WorkoutSplit, error)
	GetSplitByName(ctx context.Context, planID uint, name string) (*domain.WorkoutSplit, error)
	ListSplitsByPlan(ctx context.Context, planID uint) ([]domain.WorkoutSplit, error)
	UpdateSplit(ctx context.Context, split *domain.WorkoutSplit) error
	DeleteSplit(ctx context.Context, id uint) error

	CreateExercise(ctx context.Context, exercise *domain.Exercise) error
	GetExerciseByID(ctx context.Context, id uint) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, exercise *domain.Exercise) error
	DeleteExercise(ctx context.Context, id uint) error
}
