package domain

import (
	"time"
)

// Challenge is a social fitness challenge created by a user. Other users
// participate through ChallengeEnrollment rows.
type Challenge struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   time.Time `gorm:"not null" json:"startDate"`
	EndDate     time.Time `gorm:"not null" json:"endDate"`
	Image       string    `gorm:"type:varchar(255)" json:"image"` // object key in file storage, not a URL
	CreatorID   uint      `gorm:"not null;index" json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Creator     *User                 `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Enrollments []ChallengeEnrollment `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeWindow selects challenges by where the current time falls
// relative to their start and end dates.
type ChallengeWindow int

const (
	WindowActive    ChallengeWindow = iota // startDate <= now <= endDate
	WindowCompleted                        // endDate < now
	WindowUpcoming                         // startDate > now
)

// Progress bounds for an enrollment.
const (
	MinProgress = 0
	MaxProgress = 100
)

// ChallengeEnrollment links a user to a challenge they joined. The composite
// primary key guarantees at most one enrollment per (user, challenge) pair;
// the service-level existence check is only a friendlier front for it.
type ChallengeEnrollment struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ChallengeID uint      `gorm:"primaryKey;autoIncrement:false" json:"challengeId"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joinedAt"`
	Progress    int       `gorm:"not null;default:0" json:"progress"` // 0..100

	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Challenge *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
}

func (ChallengeEnrollment) TableName() string {
	return "challenge_enrollments"
}
