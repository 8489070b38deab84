package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/repository"
)

// gormWorkoutRepository implements repository.WorkoutRepository on GORM.
type gormWorkoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new instance of gormWorkoutRepository.
func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &gormWorkoutRepository{db: db}
}

// --- Plans ---

// CreatePlan inserts the plan and any nested splits/exercises. GORM writes
// the whole association tree inside one transaction.
func (r *gormWorkoutRepository) CreatePlan(ctx context.Context, plan *domain.WorkoutPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *gormWorkoutRepository) GetPlanByID(ctx context.Context, id uint) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.db.WithContext(ctx).
		Preload("Splits.Exercises").
		First(&plan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *gormWorkoutRepository) GetPlanByTitle(ctx context.Context, title string) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *gormWorkoutRepository) ListPlansByUser(ctx context.Context, userID uint) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	err := r.db.WithContext(ctx).
		Preload("Splits.Exercises").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *gormWorkoutRepository) UpdatePlan(ctx context.Context, plan *domain.WorkoutPlan) error {
	return r.db.WithContext(ctx).Omit("Splits").Save(plan).Error
}

// DeletePlan removes the plan row; splits and exercises go with it through
// the cascading foreign keys.
func (r *gormWorkoutRepository) DeletePlan(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.WorkoutPlan{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// --- Splits ---

func (r *gormWorkoutRepository) CreateSplit(ctx context.Context, split *domain.WorkoutSplit) error {
	return r.db.WithContext(ctx).Create(split).Error
}

func (r *gormWorkoutRepository) GetSplitByID(ctx context.Context, id uint) (*domain.WorkoutSplit, error) {
	var split domain.WorkoutSplit
	err := r.db.WithContext(ctx).
		Preload("Exercises").
		First(&split, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &split, nil
}

func (r *gormWorkoutRepository) GetSplitByName(ctx context.Context, planID uint, name string) (*domain.WorkoutSplit, error) {
	var split domain.WorkoutSplit
	err := r.db.WithContext(ctx).
		Where("plan_id = ? AND workout_split_name = ?", planID, name).
		First(&split).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &split, nil
}

func (r *gormWorkoutRepository) ListSplitsByPlan(ctx context.Context, planID uint) ([]domain.WorkoutSplit, error) {
	var splits []domain.WorkoutSplit
	err := r.db.WithContext(ctx).
		Preload("Exercises").
		Where("plan_id = ?", planID).
		Order("created_at ASC").
		Find(&splits).Error
	if err != nil {
		return nil, err
	}
	return splits, nil
}

func (r *gormWorkoutRepository) UpdateSplit(ctx context.Context, split *domain.WorkoutSplit) error {
	return r.db.WithContext(ctx).Omit("Exercises").Save(split).Error
}

func (r *gormWorkoutRepository) DeleteSplit(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.WorkoutSplit{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// --- Exercises ---

func (r *gormWorkoutRepository) CreateExercise(ctx context.Context, exercise *domain.Exercise) error {
	return r.db.WithContext(ctx).Create(exercise).Error
}

func (r *gormWorkoutRepository) GetExerciseByID(ctx context.Context, id uint) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.db.WithContext(ctx).First(&exercise, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (r *gormWorkoutRepository) UpdateExercise(ctx context.Context, exercise *domain.Exercise) error {
	return r.db.WithContext(ctx).Save(exercise).Error
}

func (r *gormWorkoutRepository) DeleteExercise(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Exercise{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
