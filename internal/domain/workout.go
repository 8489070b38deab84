package domain

import (
	"time"
)

// WorkoutPlan is the root of the user-owned plan → split → exercise tree.
type WorkoutPlan struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Splits []WorkoutSplit `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"workoutSplits,omitempty"`
}

func (WorkoutPlan) TableName() string {
	return "workout_plans"
}

// WorkoutSplit groups exercises within a plan, e.g. "Push Day".
// Split names are unique within their plan (checked before insert).
type WorkoutSplit struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkoutSplitName string    `gorm:"type:varchar(255);not null" json:"workoutSplitName"`
	PlanID           uint      `gorm:"not null;index" json:"planId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Exercises []Exercise `gorm:"foreignKey:SplitID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
}

func (WorkoutSplit) TableName() string {
	return "workout_splits"
}

// Exercise is a single movement inside a split. Sets must be positive.
type Exercise struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ExerciseName string    `gorm:"type:varchar(255);not null" json:"exerciseName"`
	Sets         int       `gorm:"not null" json:"sets"`
	SplitID      uint      `gorm:"not null;index" json:"splitId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Exercise) TableName() string {
	return "exercises"
}
