package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/repository"
)

// gormEnrollmentRepository implements repository.EnrollmentRepository on GORM.
type gormEnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new instance of gormEnrollmentRepository.
func NewEnrollmentRepository(db *gorm.DB) repository.EnrollmentRepository {
	return &gormEnrollmentRepository{db: db}
}

// Create inserts the enrollment. The composite primary key makes a concurrent
// double-join fail here with ErrConflict rather than slipping past the
// service-level existence check.
func (r *gormEnrollmentRepository) Create(ctx context.Context, enrollment *domain.ChallengeEnrollment) error {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *gormEnrollmentRepository) Get(ctx context.Context, userID, challengeID uint) (*domain.ChallengeEnrollment, error) {
	var enrollment domain.ChallengeEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) Delete(ctx context.Context, userID, challengeID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Delete(&domain.ChallengeEnrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *gormEnrollmentRepository) Update(ctx context.Context, enrollment *domain.ChallengeEnrollment) error {
	return r.db.WithContext(ctx).
		Model(&domain.ChallengeEnrollment{}).
		Where("user_id = ? AND challenge_id = ?", enrollment.UserID, enrollment.ChallengeID).
		Update("progress", enrollment.Progress).Error
}

func (r *gormEnrollmentRepository) ListByChallenge(ctx context.Context, challengeID uint, offset, limit int) ([]domain.ChallengeEnrollment, error) {
	var enrollments []domain.ChallengeEnrollment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("challenge_id = ?", challengeID).
		Order("joined_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) CountByChallenge(ctx context.Context, challengeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ChallengeEnrollment{}).
		Where("challenge_id = ?", challengeID).
		Count(&count).Error
	return count, err
}

func (r *gormEnrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]domain.ChallengeEnrollment, error) {
	var enrollments []domain.ChallengeEnrollment
	err := r.db.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
