package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/service"
)

// UserHandler holds the user service dependency.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- Request/Response Structs ---

type EditProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty"`
	LastName  *string `json:"lastName" binding:"omitempty"`
}

// ParticipantName projects just the name fields of a user.
type ParticipantName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreatedChallengeResponse projects a created challenge with creator and
// participant names.
type CreatedChallengeResponse struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Creator      ParticipantName   `json:"creator"`
	Participants []ParticipantName `json:"participants"`
}

func mapCreatedChallenge(challenge domain.Challenge) CreatedChallengeResponse {
	resp := CreatedChallengeResponse{
		ID:           challenge.ID,
		Title:        challenge.Title,
		Description:  challenge.Description,
		Participants: make([]ParticipantName, 0, len(challenge.Enrollments)),
	}
	if challenge.Creator != nil {
		resp.Creator = ParticipantName{FirstName: challenge.Creator.FirstName, LastName: challenge.Creator.LastName}
	}
	for _, enrollment := range challenge.Enrollments {
		if enrollment.User != nil {
			resp.Participants = append(resp.Participants, ParticipantName{
				FirstName: enrollment.User.FirstName,
				LastName:  enrollment.User.LastName,
			})
		}
	}
	return resp
}

// --- Handler Methods ---

// Profile returns the caller's own email and name.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from context")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
	})
}

// EditProfile merges the supplied fields into the addressed user.
func (h *UserHandler) EditProfile(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userService.EditProfile(c.Request.Context(), id, service.EditProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "User updated successfully", "user", MapUserToResponse(user))
}

// CreatedChallenges lists the challenges the caller has created.
func (h *UserHandler) CreatedChallenges(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from context")
		return
	}

	challenges, err := h.userService.CreatedChallenges(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]CreatedChallengeResponse, len(challenges))
	for i, challenge := range challenges {
		responses[i] = mapCreatedChallenge(challenge)
	}
	respond(c, http.StatusOK, "Created challenges retrieved successfully", "challenges", responses)
}
