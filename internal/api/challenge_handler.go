package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/service"
)

// dateLayout is the wire format for challenge start/end dates.
const dateLayout = "2006-01-02"

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// ChallengeHandler holds the challenge service dependency.
type ChallengeHandler struct {
	challengeService service.ChallengeService
	maxImageBytes    int64
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challengeService service.ChallengeService, maxImageBytes int64) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		maxImageBytes:    maxImageBytes,
	}
}

// --- Request/Response Structs ---

// CreateChallengeRequest is bound from multipart form fields; the image file
// travels separately under the "image" field.
type CreateChallengeRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	StartDate   string `form:"startDate" binding:"required"`
	EndDate     string `form:"endDate" binding:"required"`
}

// UpdateChallengeRequest is a partial multipart update.
type UpdateChallengeRequest struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
	StartDate   *string `form:"startDate"`
	EndDate     *string `form:"endDate"`
}

type UpdateParticipationRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// ChallengeResponse is the DTO for returning challenge details.
type ChallengeResponse struct {
	ID               uint             `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	StartDate        time.Time        `json:"startDate"`
	EndDate          time.Time        `json:"endDate"`
	Image            string           `json:"image,omitempty"`
	CreatorID        uint             `json:"creatorId"`
	CreatedAt        time.Time        `json:"createdAt"`
	Creator          *ParticipantName `json:"creator,omitempty"`
	ParticipantCount *int64           `json:"participantCount,omitempty"`
}

// EnrollmentResponse is the DTO for a participation record. User or
// Challenge is populated depending on which side the listing projects.
type EnrollmentResponse struct {
	UserID      uint             `json:"userId"`
	ChallengeID uint             `json:"challengeId"`
	JoinedAt    time.Time        `json:"joinedAt"`
	Progress    int              `json:"progress"`
	User        *ParticipantName `json:"user,omitempty"`
	Challenge   *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"challenge,omitempty"`
}

// MapChallengeToResponse converts a domain.Challenge to a ChallengeResponse DTO.
func MapChallengeToResponse(challenge *domain.Challenge) ChallengeResponse {
	if challenge == nil {
		return ChallengeResponse{}
	}
	resp := ChallengeResponse{
		ID:          challenge.ID,
		Title:       challenge.Title,
		Description: challenge.Description,
		StartDate:   challenge.StartDate,
		EndDate:     challenge.EndDate,
		Image:       challenge.Image,
		CreatorID:   challenge.CreatorID,
		CreatedAt:   challenge.CreatedAt,
	}
	if challenge.Creator != nil {
		resp.Creator = &ParticipantName{
			FirstName: challenge.Creator.FirstName,
			LastName:  challenge.Creator.LastName,
		}
	}
	return resp
}

func mapSummaries(summaries []service.ChallengeSummary) []ChallengeResponse {
	responses := make([]ChallengeResponse, len(summaries))
	for i, summary := range summaries {
		resp := MapChallengeToResponse(&summary.Challenge)
		count := summary.ParticipantCount
		resp.ParticipantCount = &count
		responses[i] = resp
	}
	return responses
}

func mapEnrollment(enrollment domain.ChallengeEnrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		UserID:      enrollment.UserID,
		ChallengeID: enrollment.ChallengeID,
		JoinedAt:    enrollment.JoinedAt,
		Progress:    enrollment.Progress,
	}
	if enrollment.User != nil {
		resp.User = &ParticipantName{
			FirstName: enrollment.User.FirstName,
			LastName:  enrollment.User.LastName,
		}
	}
	if enrollment.Challenge != nil {
		resp.Challenge = &struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}{Title: enrollment.Challenge.Title, Description: enrollment.Challenge.Description}
	}
	return resp
}

func mapEnrollments(enrollments []domain.ChallengeEnrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, len(enrollments))
	for i, enrollment := range enrollments {
		responses[i] = mapEnrollment(enrollment)
	}
	return responses
}

// --- Handler Methods ---

// Create inserts a new challenge owned by the caller.
func (h *ChallengeHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from context")
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "startDate must be in YYYY-MM-DD format")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "endDate must be in YYYY-MM-DD format")
		return
	}

	image, cleanup, ok := h.imageFromForm(c)
	if !ok {
		return
	}
	defer cleanup()

	challenge, err := h.challengeService.Create(c.Request.Context(), user.ID, service.CreateChallengeInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	}, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Challenge created successfully", "challenge", MapChallengeToResponse(challenge))
}

// GetByID returns one challenge's full details.
func (h *ChallengeHandler) GetByID(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	challenge, err := h.challengeService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Challenge retrieved successfully", "challenge", MapChallengeToResponse(challenge))
}

// GetAll lists challenges newest-first with pagination.
func (h *ChallengeHandler) GetAll(c *gin.Context) {
	page, limit := pagination(c)

	summaries, err := h.challengeService.List(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Challenges retrieved successfully", "challenges", mapSummaries(summaries))
}

// Update merges supplied fields; a new image replaces the stored one.
func (h *ChallengeHandler) Update(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req UpdateChallengeRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.UpdateChallengeInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "startDate must be in YYYY-MM-DD format")
			return
		}
		input.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "endDate must be in YYYY-MM-DD format")
			return
		}
		input.EndDate = &endDate
	}

	image, cleanup, ok := h.imageFromForm(c)
	if !ok {
		return
	}
	defer cleanup()

	challenge, err := h.challengeService.Update(c.Request.Context(), id, input, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Challenge updated successfully", "challenge", MapChallengeToResponse(challenge))
}

// Delete removes a challenge.
func (h *ChallengeHandler) Delete(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	title, err := h.challengeService.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("Challenge '%s' deleted successfully", title), "", nil)
}

// Join enrolls the caller into the challenge.
func (h *ChallengeHandler) Join(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from context")
		return
	}
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.challengeService.Join(c.Request.Context(), user.ID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Participation created successfully", "participation", mapEnrollment(*enrollment))
}

// Leave removes the caller's enrollment.
func (h *ChallengeHandler) Leave(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from context")
		return
	}
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := h.challengeService.Leave(c.Request.Context(), user.ID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Participation deleted successfully", "", nil)
}

// Participants lists enrollments of a challenge, newest-joined-first.
func (h *ChallengeHandler) Participants(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	page, limit := pagination(c)

	enrollments, err := h.challengeService.Participants(c.Request.Context(), id, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Participants retrieved successfully", "participants", mapEnrollments(enrollments))
}

// Participations lists all challenges the caller has joined.
func (h *ChallengeHandler) Participations(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from context")
		return
	}

	enrollments, err := h.challengeService.Participations(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Retrieved all participations", "participations", mapEnrollments(enrollments))
}

// UpdateParticipation sets a participant's progress on a challenge.
func (h *ChallengeHandler) UpdateParticipation(c *gin.Context) {
	challengeID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	participantID, ok := paramUint(c, "pid")
	if !ok {
		return
	}

	var req UpdateParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	enrollment, err := h.challengeService.UpdateParticipation(c.Request.Context(), challengeID, participantID, *req.Progress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Participation updated successfully", "participation", mapEnrollment(*enrollment))
}

// ImageURL returns a temporary download URL for the challenge image.
func (h *ChallengeHandler) ImageURL(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	url, err := h.challengeService.ImageURL(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Image URL generated successfully", "imageUrl", url)
}

// Active lists challenges whose window contains the current time.
func (h *ChallengeHandler) Active(c *gin.Context) {
	h.listByWindow(c, domain.WindowActive, "Active challenges retrieved successfully")
}

// Completed lists challenges whose end date has passed.
func (h *ChallengeHandler) Completed(c *gin.Context) {
	h.listByWindow(c, domain.WindowCompleted, "Completed challenges retrieved successfully")
}

// Upcoming lists challenges that have not started yet.
func (h *ChallengeHandler) Upcoming(c *gin.Context) {
	h.listByWindow(c, domain.WindowUpcoming, "Upcoming challenges retrieved successfully")
}

func (h *ChallengeHandler) listByWindow(c *gin.Context, window domain.ChallengeWindow, message string) {
	summaries, err := h.challengeService.ListByWindow(c.Request.Context(), window)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, message, "challenges", mapSummaries(summaries))
}

// imageFromForm extracts the optional bounded image attachment from the
// multipart form. The cleanup func closes the underlying file.
func (h *ChallengeHandler) imageFromForm(c *gin.Context) (*service.ImageUpload, func(), bool) {
	noop := func() {}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, true
		}
		abortWithError(c, http.StatusBadRequest, "Invalid image upload")
		return nil, noop, false
	}

	if fileHeader.Size > h.maxImageBytes {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Image exceeds the maximum size of %d bytes", h.maxImageBytes))
		return nil, noop, false
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		abortWithError(c, http.StatusBadRequest, "Only image files are allowed")
		return nil, noop, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded image")
		return nil, noop, false
	}

	return &service.ImageUpload{
		Body:        file,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Ext:         ext,
	}, func() { file.Close() }, true
}
