package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitlife/challenge-api/internal/service"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request Structs ---

type ExerciseRequest struct {
	ExerciseName string `json:"exerciseName" binding:"required"`
	Sets         int    `json:"sets" binding:"required,gt=0"`
}

type SplitRequest struct {
	WorkoutSplitName string            `json:"workoutSplitName" binding:"required"`
	Exercises        []ExerciseRequest `json:"exercises" binding:"omitempty,dive"`
}

type CreatePlanRequest struct {
	Title         string         `json:"title" binding:"required"`
	WorkoutSplits []SplitRequest `json:"workoutSplits" binding:"omitempty,dive"`
}

type UpdatePlanRequest struct {
	Title *string `json:"title" binding:"omitempty"`
}

type UpdateSplitRequest struct {
	WorkoutSplitName *string `json:"workoutSplitName" binding:"omitempty"`
}

type UpdateExerciseRequest struct {
	ExerciseName *string `json:"exerciseName" binding:"omitempty"`
	Sets         *int    `json:"sets" binding:"omitempty"`
}

func mapSplitRequest(req SplitRequest) service.SplitInput {
	input := service.SplitInput{WorkoutSplitName: req.WorkoutSplitName}
	for _, exercise := range req.Exercises {
		input.Exercises = append(input.Exercises, service.ExerciseInput{
			ExerciseName: exercise.ExerciseName,
			Sets:         exercise.Sets,
		})
	}
	return input
}

// --- Plan Handlers ---

// CreatePlan creates a plan, optionally with its whole nested split/exercise tree.
func (h *WorkoutHandler) CreatePlan(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from context")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.CreatePlanInput{Title: req.Title}
	for _, split := range req.WorkoutSplits {
		input.Splits = append(input.Splits, mapSplitRequest(split))
	}

	plan, err := h.workoutService.CreatePlan(c.Request.Context(), user.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Workout plan created successfully", "workoutPlan", plan)
}

// ListPlans returns the caller's plans with nested splits and exercises.
func (h *WorkoutHandler) ListPlans(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from context")
		return
	}

	plans, err := h.workoutService.ListPlans(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Workout plans retrieved successfully", "workoutPlans", plans)
}

// GetPlan returns one plan with nested splits and exercises.
func (h *WorkoutHandler) GetPlan(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	plan, err := h.workoutService.GetPlan(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Workout plan retrieved successfully", "workoutPlan", plan)
}

// UpdatePlan merges the supplied fields into the plan.
func (h *WorkoutHandler) UpdatePlan(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.workoutService.UpdatePlan(c.Request.Context(), id, service.UpdatePlanInput{Title: req.Title})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Workout plan updated successfully", "workoutPlan", plan)
}

// DeletePlan removes a plan; children cascade at the store.
func (h *WorkoutHandler) DeletePlan(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	title, err := h.workoutService.DeletePlan(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("Workout plan '%s' deleted successfully", title), "", nil)
}

// --- Split Handlers ---

// CreateSplit adds a split to a plan.
func (h *WorkoutHandler) CreateSplit(c *gin.Context) {
	planID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	split, err := h.workoutService.CreateSplit(c.Request.Context(), planID, mapSplitRequest(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, fmt.Sprintf("Workout split '%s' created successfully", split.WorkoutSplitName), "workoutSplit", split)
}

// AddSplit adds a split to a plan, rejecting duplicate names within the plan.
func (h *WorkoutHandler) AddSplit(c *gin.Context) {
	planID, ok := paramUint(c, "planId")
	if !ok {
		return
	}

	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	split, err := h.workoutService.AddSplit(c.Request.Context(), planID, mapSplitRequest(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "New workout split added successfully", "workoutSplit", split)
}

// ListSplits returns all splits of a plan with nested exercises.
func (h *WorkoutHandler) ListSplits(c *gin.Context) {
	planID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	splits, planTitle, err := h.workoutService.ListSplits(c.Request.Context(), planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("All workout splits for plan '%s' retrieved successfully", planTitle), "workoutSplits", splits)
}

// GetSplit returns one split after validating it belongs to the plan.
func (h *WorkoutHandler) GetSplit(c *gin.Context) {
	planID, ok := paramUint(c, "planId")
	if !ok {
		return
	}
	splitID, ok := paramUint(c, "splitId")
	if !ok {
		return
	}

	split, err := h.workoutService.GetSplit(c.Request.Context(), planID, splitID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Workout split retrieved successfully", "workoutSplit", split)
}

// UpdateSplit merges the supplied fields into the split.
func (h *WorkoutHandler) UpdateSplit(c *gin.Context) {
	planID, ok := paramUint(c, "planId")
	if !ok {
		return
	}
	splitID, ok := paramUint(c, "splitId")
	if !ok {
		return
	}

	var req UpdateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	split, err := h.workoutService.UpdateSplit(c.Request.Context(), planID, splitID, service.UpdateSplitInput{
		WorkoutSplitName: req.WorkoutSplitName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("Workout split '%s' updated successfully", split.WorkoutSplitName), "workoutSplit", split)
}

// DeleteSplit removes a split from a plan.
func (h *WorkoutHandler) DeleteSplit(c *gin.Context) {
	planID, ok := paramUint(c, "planId")
	if !ok {
		return
	}
	splitID, ok := paramUint(c, "splitId")
	if !ok {
		return
	}

	name, err := h.workoutService.DeleteSplit(c.Request.Context(), planID, splitID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("Workout split '%s' deleted successfully", name), "", nil)
}

// --- Exercise Handlers ---

// CreateExercise adds an exercise to a split.
func (h *WorkoutHandler) CreateExercise(c *gin.Context) {
	splitID, ok := paramUint(c, "splitId")
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.workoutService.CreateExercise(c.Request.Context(), splitID, service.ExerciseInput{
		ExerciseName: req.ExerciseName,
		Sets:         req.Sets,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "New exercise has been created", "exercise", exercise)
}

// UpdateExercise merges the supplied fields into the exercise.
func (h *WorkoutHandler) UpdateExercise(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.workoutService.UpdateExercise(c.Request.Context(), id, service.UpdateExerciseInput{
		ExerciseName: req.ExerciseName,
		Sets:         req.Sets,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Exercise has been updated", "exercise", exercise)
}

// DeleteExercise removes an exercise.
func (h *WorkoutHandler) DeleteExercise(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	name, err := h.workoutService.DeleteExercise(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("Exercise '%s' has been deleted successfully", name), "", nil)
}
