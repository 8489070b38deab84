package service

import (
	"context"
	"errors"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrPlanTitleTaken   = errors.New("plan name already exists, please try something new")
	ErrSplitNotFound    = errors.New("workout split not found")
	ErrSplitNameTaken   = errors.New("a split with this name already exists in the plan")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrInvalidSets      = errors.New("sets must be a positive integer")
)

// ExerciseInput carries the fields for one exercise inside a split.
type ExerciseInput struct {
	ExerciseName string
	Sets         int
}

// SplitInput carries a split and its optional nested exercises.
type SplitInput struct {
	WorkoutSplitName string
	Exercises        []ExerciseInput
}

// CreatePlanInput carries a plan and its optional nested splits.
type CreatePlanInput struct {
	Title  string
	Splits []SplitInput
}

// UpdatePlanInput is a partial plan update.
type UpdatePlanInput struct {
	Title *string
}

// UpdateSplitInput is a partial split update.
type UpdateSplitInput struct {
	WorkoutSplitName *string
}

// UpdateExerciseInput is a partial exercise update.
type UpdateExerciseInput struct {
	ExerciseName *string
	Sets         *int
}

// WorkoutService handles the user-owned plan → split → exercise tree. Every
// operation on a child validates its parent chain first.
type WorkoutService interface {
	CreatePlan(ctx context.Context, userID uint, input CreatePlanInput) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, userID uint) ([]domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, id uint) (*domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, id uint, input UpdatePlanInput) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, id uint) (title string, err error)

	CreateSplit(ctx context.Context, planID uint, input SplitInput) (*domain.WorkoutSplit, error)
	AddSplit(ctx context.Context, planID uint, input SplitInput) (*domain.WorkoutSplit, error)
	ListSplits(ctx context.Context, planID uint) ([]domain.WorkoutSplit, string, error)
	GetSplit(ctx context.Context, planID, splitID uint) (*domain.WorkoutSplit, error)
	UpdateSplit(ctx context.Context, planID, splitID uint, input UpdateSplitInput) (*domain.WorkoutSplit, error)
	DeleteSplit(ctx context.Context, planID, splitID uint) (name string, err error)

	CreateExercise(ctx context.Context, splitID uint, input ExerciseInput) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id uint, input UpdateExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id uint) (name string, err error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo}
}

// --- Plans ---

// CreatePlan inserts the plan and, when splits are supplied, the whole
// nested tree in one logical operation. The duplicate-title check is best
// effort; two racing creates with the same title are not prevented.
func (s *workoutService) CreatePlan(ctx context.Context, userID uint, input CreatePlanInput) (*domain.WorkoutPlan, error) {
	if input.Title == "" {
		return nil, errors.New("title cannot be empty")
	}

	_, err := s.workoutRepo.GetPlanByTitle(ctx, input.Title)
	if err == nil {
		return nil, ErrPlanTitleTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		Title:  input.Title,
		UserID: userID,
	}
	for _, splitInput := range input.Splits {
		split, err := buildSplit(splitInput)
		if err != nil {
			return nil, err
		}
		plan.Splits = append(plan.Splits, *split)
	}

	if err := s.workoutRepo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *workoutService) ListPlans(ctx context.Context, userID uint) ([]domain.WorkoutPlan, error) {
	return s.workoutRepo.ListPlansByUser(ctx, userID)
}

func (s *workoutService) GetPlan(ctx context.Context, id uint) (*domain.WorkoutPlan, error) {
	plan, err := s.workoutRepo.GetPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *workoutService) UpdatePlan(ctx context.Context, id uint, input UpdatePlanInput) (*domain.WorkoutPlan, error) {
	plan, err := s.workoutRepo.GetPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		plan.Title = *input.Title
	}

	if err := s.workoutRepo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes the plan; splits and exercises cascade at the store.
func (s *workoutService) DeletePlan(ctx context.Context, id uint) (string, error) {
	plan, err := s.workoutRepo.GetPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrPlanNotFound
		}
		return "", err
	}

	if err := s.workoutRepo.DeletePlan(ctx, id); err != nil {
		return "", err
	}
	return plan.Title, nil
}

// --- Splits ---

// CreateSplit adds a split (and optional nested exercises) to an existing plan.
func (s *workoutService) CreateSplit(ctx context.Context, planID uint, input SplitInput) (*domain.WorkoutSplit, error) {
	if err := s.requirePlan(ctx, planID); err != nil {
		return nil, err
	}

	split, err := buildSplit(input)
	if err != nil {
		return nil, err
	}
	split.PlanID = planID

	if err := s.workoutRepo.CreateSplit(ctx, split); err != nil {
		return nil, err
	}
	return split, nil
}

// AddSplit is CreateSplit plus a duplicate-name rejection within the plan.
func (s *workoutService) AddSplit(ctx context.Context, planID uint, input SplitInput) (*domain.WorkoutSplit, error) {
	if err := s.requirePlan(ctx, planID); err != nil {
		return nil, err
	}

	_, err := s.workoutRepo.GetSplitByName(ctx, planID, input.WorkoutSplitName)
	if err == nil {
		return nil, ErrSplitNameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	split, err := buildSplit(input)
	if err != nil {
		return nil, err
	}
	split.PlanID = planID

	if err := s.workoutRepo.CreateSplit(ctx, split); err != nil {
		return nil, err
	}
	return split, nil
}

// ListSplits returns the splits of a plan along with the plan title for the
// response message.
func (s *workoutService) ListSplits(ctx context.Context, planID uint) ([]domain.WorkoutSplit, string, error) {
	plan, err := s.workoutRepo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrPlanNotFound
		}
		return nil, "", err
	}

	splits, err := s.workoutRepo.ListSplitsByPlan(ctx, planID)
	if err != nil {
		return nil, "", err
	}
	return splits, plan.Title, nil
}

func (s *workoutService) GetSplit(ctx context.Context, planID, splitID uint) (*domain.WorkoutSplit, error) {
	return s.requireSplitInPlan(ctx, planID, splitID)
}

func (s *workoutService) UpdateSplit(ctx context.Context, planID, splitID uint, input UpdateSplitInput) (*domain.WorkoutSplit, error) {
	split, err := s.requireSplitInPlan(ctx, planID, splitID)
	if err != nil {
		return nil, err
	}

	if input.WorkoutSplitName != nil {
		split.WorkoutSplitName = *input.WorkoutSplitName
	}

	if err := s.workoutRepo.UpdateSplit(ctx, split); err != nil {
		return nil, err
	}
	return split, nil
}

func (s *workoutService) DeleteSplit(ctx context.Context, planID, splitID uint) (string, error) {
	split, err := s.requireSplitInPlan(ctx, planID, splitID)
	if err != nil {
		return "", err
	}

	if err := s.workoutRepo.DeleteSplit(ctx, splitID); err != nil {
		return "", err
	}
	return split.WorkoutSplitName, nil
}

// --- Exercises ---

func (s *workoutService) CreateExercise(ctx context.Context, splitID uint, input ExerciseInput) (*domain.Exercise, error) {
	if _, err := s.workoutRepo.GetSplitByID(ctx, splitID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSplitNotFound
		}
		return nil, err
	}
	if input.Sets <= 0 {
		return nil, ErrInvalidSets
	}

	exercise := &domain.Exercise{
		ExerciseName: input.ExerciseName,
		Sets:         input.Sets,
		SplitID:      splitID,
	}
	if err := s.workoutRepo.CreateExercise(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *workoutService) UpdateExercise(ctx context.Context, id uint, input UpdateExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.workoutRepo.GetExerciseByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if input.ExerciseName != nil {
		exercise.ExerciseName = *input.ExerciseName
	}
	if input.Sets != nil {
		if *input.Sets <= 0 {
			return nil, ErrInvalidSets
		}
		exercise.Sets = *input.Sets
	}

	if err := s.workoutRepo.UpdateExercise(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *workoutService) DeleteExercise(ctx context.Context, id uint) (string, error) {
	exercise, err := s.workoutRepo.GetExerciseByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}

	if err := s.workoutRepo.DeleteExercise(ctx, id); err != nil {
		return "", err
	}
	return exercise.ExerciseName, nil
}

// --- Helpers ---

func (s *workoutService) requirePlan(ctx context.Context, planID uint) error {
	if _, err := s.workoutRepo.GetPlanByID(ctx, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// requireSplitInPlan validates the plan exists and the split belongs to it.
func (s *workoutService) requireSplitInPlan(ctx context.Context, planID, splitID uint) (*domain.WorkoutSplit, error) {
	if err := s.requirePlan(ctx, planID); err != nil {
		return nil, err
	}

	split, err := s.workoutRepo.GetSplitByID(ctx, splitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSplitNotFound
		}
		return nil, err
	}
	if split.PlanID != planID {
		return nil, ErrSplitNotFound
	}
	return split, nil
}

// buildSplit converts a SplitInput into a domain split, validating nested
// exercises along the way.
func buildSplit(input SplitInput) (*domain.WorkoutSplit, error) {
	if input.WorkoutSplitName == "" {
		return nil, errors.New("workout split name cannot be empty")
	}

	split := &domain.WorkoutSplit{WorkoutSplitName: input.WorkoutSplitName}
	for _, exerciseInput := range input.Exercises {
		if exerciseInput.Sets <= 0 {
			return nil, ErrInvalidSets
		}
		split.Exercises = append(split.Exercises, domain.Exercise{
			ExerciseName: exerciseInput.ExerciseName,
			Sets:         exerciseInput.Sets,
		})
	}
	return split, nil
}
