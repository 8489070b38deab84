package service

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/repository"
	"fitlife/challenge-api/internal/storage"
)

// --- Error Definitions ---
var (
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrAlreadyJoined       = errors.New("you have already joined this challenge")
	ErrNotJoined           = errors.New("you have not joined this challenge")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrNoParticipants      = errors.New("no participants found for this challenge")
	ErrNoChallengesFound   = errors.New("no challenges found")
	ErrInvalidProgress     = errors.New("progress must be between 0 and 100")
	ErrNoImage             = errors.New("challenge has no image")
)

// CreateChallengeInput carries the fields for a new challenge.
type CreateChallengeInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// UpdateChallengeInput carries a partial challenge update. Nil fields are
// left untouched.
type UpdateChallengeInput struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ImageUpload is a bounded image attachment read from a multipart request.
type ImageUpload struct {
	Body        io.Reader
	ContentType string
	Ext         string // file extension including the dot, e.g. ".png"
}

// ChallengeSummary pairs a challenge with its participant count for listings.
type ChallengeSummary struct {
	Challenge        domain.Challenge
	ParticipantCount int64
}

// ChallengeService handles challenge CRUD and the enrollment sub-resource.
type ChallengeService interface {
	Create(ctx context.Context, creatorID uint, input CreateChallengeInput, image *ImageUpload) (*domain.Challenge, error)
	GetByID(ctx context.Context, id uint) (*domain.Challenge, error)
	List(ctx context.Context, page, limit int) ([]ChallengeSummary, error)
	ListByWindow(ctx context.Context, window domain.ChallengeWindow) ([]ChallengeSummary, error)
	Update(ctx context.Context, id uint, input UpdateChallengeInput, image *ImageUpload) (*domain.Challenge, error)
	Delete(ctx context.Context, id uint) (title string, err error)
	ImageURL(ctx context.Context, id uint) (string, error)

	Join(ctx context.Context, userID, challengeID uint) (*domain.ChallengeEnrollment, error)
	Leave(ctx context.Context, userID, challengeID uint) error
	Participants(ctx context.Context, challengeID uint, page, limit int) ([]domain.ChallengeEnrollment, error)
	Participations(ctx context.Context, userID uint) ([]domain.ChallengeEnrollment, error)
	UpdateParticipation(ctx context.Context, challengeID, userID uint, progress int) (*domain.ChallengeEnrollment, error)
}

// challengeService implements the ChallengeService interface.
type challengeService struct {
	challengeRepo  repository.ChallengeRepository
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
	fileStorage    storage.FileStorage
}

// NewChallengeService creates a new instance of challengeService.
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
) ChallengeService {
	return &challengeService{
		challengeRepo:  challengeRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		fileStorage:    fileStorage,
	}
}

// Create inserts a challenge owned by creatorID, storing the image (if any)
// first so the row only ever references an object that exists.
func (s *challengeService) Create(ctx context.Context, creatorID uint, input CreateChallengeInput, image *ImageUpload) (*domain.Challenge, error) {
	if input.Title == "" {
		return nil, errors.New("title cannot be empty")
	}

	imageKey, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	challenge := &domain.Challenge{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Image:       imageKey,
		CreatorID:   creatorID,
	}

	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *challengeService) GetByID(ctx context.Context, id uint) (*domain.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return challenge, nil
}

// List returns a page of challenges newest-first annotated with participant
// counts. A page past the end of the data is an empty slice.
func (s *challengeService) List(ctx context.Context, page, limit int) ([]ChallengeSummary, error) {
	offset := pageOffset(page, limit)
	challenges, err := s.challengeRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, challenges)
}

// ListByWindow returns active, completed or upcoming challenges. An empty
// result is an error, matching the listing contract for window queries.
func (s *challengeService) ListByWindow(ctx context.Context, window domain.ChallengeWindow) ([]ChallengeSummary, error) {
	challenges, err := s.challengeRepo.ListByWindow(ctx, window)
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return nil, ErrNoChallengesFound
	}
	return s.annotate(ctx, challenges)
}

// Update merges the supplied fields into the challenge. When a new image is
// supplied the old object is removed from storage after the row is updated.
func (s *challengeService) Update(ctx context.Context, id uint, input UpdateChallengeInput, image *ImageUpload) (*domain.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		challenge.Title = *input.Title
	}
	if input.Description != nil {
		challenge.Description = *input.Description
	}
	if input.StartDate != nil {
		challenge.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		challenge.EndDate = *input.EndDate
	}

	oldImage := ""
	if image != nil {
		imageKey, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		oldImage = challenge.Image
		challenge.Image = imageKey
	}

	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, err
	}

	if oldImage != "" {
		// Best effort; an orphaned object is not worth failing the update.
		if err := s.fileStorage.DeleteObject(ctx, oldImage); err != nil {
			log.Printf("WARN: failed to delete replaced challenge image %q: %v", oldImage, err)
		}
	}

	return challenge, nil
}

// Delete removes the challenge and its stored image, returning the title for
// the response message.
func (s *challengeService) Delete(ctx context.Context, id uint) (string, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrChallengeNotFound
		}
		return "", err
	}

	if err := s.challengeRepo.Delete(ctx, id); err != nil {
		return "", err
	}

	if challenge.Image != "" {
		if err := s.fileStorage.DeleteObject(ctx, challenge.Image); err != nil {
			log.Printf("WARN: failed to delete image %q of deleted challenge %d: %v", challenge.Image, id, err)
		}
	}

	return challenge.Title, nil
}

// ImageURL returns a presigned download URL for the challenge image.
func (s *challengeService) ImageURL(ctx context.Context, id uint) (string, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrChallengeNotFound
		}
		return "", err
	}
	if challenge.Image == "" {
		return "", ErrNoImage
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, challenge.Image, storage.DefaultPresignedURLExpiry)
}

// Join enrolls the user with progress 0. The existence check gives a clean
// rejection; the composite primary key catches the race between two
// concurrent joins.
func (s *challengeService) Join(ctx context.Context, userID, challengeID uint) (*domain.ChallengeEnrollment, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.challengeRepo.GetByID(ctx, challengeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	if _, err := s.enrollmentRepo.Get(ctx, userID, challengeID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	enrollment := &domain.ChallengeEnrollment{
		UserID:      userID,
		ChallengeID: challengeID,
		Progress:    domain.MinProgress,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyJoined
		}
		return nil, err
	}
	return enrollment, nil
}

// Leave removes the user's enrollment.
func (s *challengeService) Leave(ctx context.Context, userID, challengeID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if _, err := s.challengeRepo.GetByID(ctx, challengeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChallengeNotFound
		}
		return err
	}

	if err := s.enrollmentRepo.Delete(ctx, userID, challengeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotJoined
		}
		return err
	}
	return nil
}

// Participants returns a page of enrollments newest-joined-first with each
// participant's user populated. A challenge with zero participants is an
// error rather than an empty page.
func (s *challengeService) Participants(ctx context.Context, challengeID uint, page, limit int) ([]domain.ChallengeEnrollment, error) {
	if _, err := s.challengeRepo.GetByID(ctx, challengeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	count, err := s.enrollmentRepo.CountByChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoParticipants
	}

	return s.enrollmentRepo.ListByChallenge(ctx, challengeID, pageOffset(page, limit), limit)
}

// Participations returns every challenge the user has joined, with the
// challenge populated for title/description projection.
func (s *challengeService) Participations(ctx context.Context, userID uint) ([]domain.ChallengeEnrollment, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.enrollmentRepo.ListByUser(ctx, userID)
}

// UpdateParticipation sets the participant's progress. The bounds are checked
// before any storage access.
func (s *challengeService) UpdateParticipation(ctx context.Context, challengeID, userID uint, progress int) (*domain.ChallengeEnrollment, error) {
	if progress < domain.MinProgress || progress > domain.MaxProgress {
		return nil, ErrInvalidProgress
	}

	enrollment, err := s.enrollmentRepo.Get(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	enrollment.Progress = progress
	if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// annotate attaches participant counts to a challenge listing.
func (s *challengeService) annotate(ctx context.Context, challenges []domain.Challenge) ([]ChallengeSummary, error) {
	ids := make([]uint, len(challenges))
	for i, c := range challenges {
		ids[i] = c.ID
	}
	counts, err := s.challengeRepo.CountEnrollments(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]ChallengeSummary, len(challenges))
	for i, c := range challenges {
		summaries[i] = ChallengeSummary{Challenge: c, ParticipantCount: counts[c.ID]}
	}
	return summaries, nil
}

// storeImage writes the upload under a fresh UUID-based key and returns it.
// A nil upload yields an empty key.
func (s *challengeService) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}
	key := uuid.NewString() + image.Ext
	if err := s.fileStorage.Upload(ctx, key, image.ContentType, image.Body); err != nil {
		return "", err
	}
	return key, nil
}

// pageOffset converts 1-based page/limit into a row offset, tolerating
// missing or nonsense values.
func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return 0
	}
	return (page - 1) * limit
}
