package domain

import (
	"time"
)

// User represents a registered account. A user can create challenges,
// join challenges created by others, and own workout plans.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"` // Should be unique
	Password  string    `gorm:"not null" json:"-"`                 // bcrypt hash, never expose via JSON
	FirstName string    `gorm:"type:varchar(100)" json:"firstName"`
	LastName  string    `gorm:"type:varchar(100)" json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CreatedChallenges []Challenge           `gorm:"foreignKey:CreatorID" json:"-"`
	Enrollments       []ChallengeEnrollment `gorm:"foreignKey:UserID" json:"-"`
	WorkoutPlans      []WorkoutPlan         `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name for display in participant listings.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
