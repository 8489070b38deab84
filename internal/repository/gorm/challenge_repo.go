package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/repository"
)

// gormChallengeRepository implements repository.ChallengeRepository on GORM.
type gormChallengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new instance of gormChallengeRepository.
func NewChallengeRepository(db *gorm.DB) repository.ChallengeRepository {
	return &gormChallengeRepository{db: db}
}

func (r *gormChallengeRepository) Create(ctx context.Context, challenge *domain.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *gormChallengeRepository) GetByID(ctx context.Context, id uint) (*domain.Challenge, error) {
	var challenge domain.Challenge
	err := r.db.WithContext(ctx).First(&challenge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *gormChallengeRepository) List(ctx context.Context, offset, limit int) ([]domain.Challenge, error) {
	var challenges []domain.Challenge
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *gormChallengeRepository) ListByWindow(ctx context.Context, window domain.ChallengeWindow) ([]domain.Challenge, error) {
	now := time.Now()
	q := r.db.WithContext(ctx).Preload("Creator").Order("created_at DESC")

	switch window {
	case domain.WindowActive:
		q = q.Where("start_date <= ? AND end_date >= ?", now, now)
	case domain.WindowCompleted:
		q = q.Where("end_date < ?", now)
	case domain.WindowUpcoming:
		q = q.Where("start_date > ?", now)
	}

	var challenges []domain.Challenge
	if err := q.Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *gormChallengeRepository) ListByCreator(ctx context.Context, creatorID uint) ([]domain.Challenge, error) {
	var challenges []domain.Challenge
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Enrollments.User").
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *gormChallengeRepository) Update(ctx context.Context, challenge *domain.Challenge) error {
	return r.db.WithContext(ctx).Save(challenge).Error
}

func (r *gormChallengeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Challenge{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountEnrollments groups participant counts for the given challenges in a
// single query.
func (r *gormChallengeRepository) CountEnrollments(ctx context.Context, challengeIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(challengeIDs))
	if len(challengeIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ChallengeID uint
		Count       int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.ChallengeEnrollment{}).
		Select("challenge_id, COUNT(*) AS count").
		Where("challenge_id IN ?", challengeIDs).
		Group("challenge_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.ChallengeID] = rw.Count
	}
	return counts, nil
}
