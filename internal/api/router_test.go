package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fitlife/challenge-api/internal/domain"
	gormrepo "fitlife/challenge-api/internal/repository/gorm"
	"fitlife/challenge-api/internal/service"
)

const testSecret = "router-test-secret"

// stubStorage satisfies storage.FileStorage without touching S3.
type stubStorage struct{}

func (stubStorage) Upload(context.Context, string, string, io.Reader) error { return nil }
func (stubStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}
func (stubStorage) DeleteObject(context.Context, string) error { return nil }

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, gormrepo.Migrate(db))

	userRepo := gormrepo.NewUserRepository(db)
	challengeRepo := gormrepo.NewChallengeRepository(db)
	enrollmentRepo := gormrepo.NewEnrollmentRepository(db)
	workoutRepo := gormrepo.NewWorkoutRepository(db)

	authService := service.NewAuthService(userRepo, testSecret, 24*time.Hour)
	challengeService := service.NewChallengeService(challengeRepo, enrollmentRepo, userRepo, stubStorage{})
	workoutService := service.NewWorkoutService(workoutRepo)
	userService := service.NewUserService(userRepo, challengeRepo)

	router := gin.New()
	SetupRoutes(router, testSecret, userRepo, authService, challengeService, workoutService, userService, 5<<20)
	return router, db
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doForm(router *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope decodes the {message, ...} response body.
func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// signUpAndIn registers an account and returns its bearer token.
func signUpAndIn(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/auth/signUp", "", gin.H{
		"email": email, "password": "password123", "firstName": "Test", "lastName": "User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/auth/signIn", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := envelope(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	router, db := newTestServer(t)

	t.Run("missing header", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/users/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authorization header is missing", envelope(t, w)["message"])
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/users/profile", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", envelope(t, w)["message"])
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwtClaims{
			Email: "old@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		w := doJSON(router, http.MethodGet, "/users/profile", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token has expired", envelope(t, w)["message"])
	})

	t.Run("token for deleted user", func(t *testing.T) {
		token := signUpAndIn(t, router, "gone@example.com")
		require.NoError(t, db.Where("email = ?", "gone@example.com").Delete(&domain.User{}).Error)

		w := doJSON(router, http.MethodGet, "/users/profile", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "User no longer exists", envelope(t, w)["message"])
	})

	t.Run("valid token", func(t *testing.T) {
		token := signUpAndIn(t, router, "here@example.com")
		w := doJSON(router, http.MethodGet, "/users/profile", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSignUpValidation(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/auth/signUp", "", gin.H{
		"email": "short@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/signUp", "", gin.H{
		"email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUpDuplicateAndBadLogin(t *testing.T) {
	router, _ := newTestServer(t)
	signUpAndIn(t, router, "taken@example.com")

	w := doJSON(router, http.MethodPost, "/auth/signUp", "", gin.H{
		"email": "taken@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/signIn", "", gin.H{
		"email": "taken@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChallengeFlow(t *testing.T) {
	router, _ := newTestServer(t)
	creatorToken := signUpAndIn(t, router, "creator@example.com")
	memberToken := signUpAndIn(t, router, "member@example.com")

	// Create.
	w := doForm(router, http.MethodPost, "/challenge/create", creatorToken, url.Values{
		"title":       {"30-Day Plank"},
		"description": {"One plank a day"},
		"startDate":   {"2026-09-01"},
		"endDate":     {"2026-09-30"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := envelope(t, w)
	assert.Equal(t, "Challenge created successfully", body["message"])
	challenge := body["challenge"].(map[string]interface{})
	challengeID := int(challenge["id"].(float64))

	// Bad date format.
	w = doForm(router, http.MethodPost, "/challenge/create", creatorToken, url.Values{
		"title": {"bad"}, "startDate": {"09/01/2026"}, "endDate": {"2026-09-30"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Join.
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/challenge/%d/join", challengeID), memberToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body = envelope(t, w)
	assert.Equal(t, "Participation created successfully", body["message"])
	participation := body["participation"].(map[string]interface{})
	assert.Equal(t, float64(0), participation["progress"])
	memberID := int(participation["userId"].(float64))

	// Double join conflicts.
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/challenge/%d/join", challengeID), memberToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Participants lists the one member.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/challenge/%d/participants", challengeID), creatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	participants := envelope(t, w)["participants"].([]interface{})
	require.Len(t, participants, 1)
	first := participants[0].(map[string]interface{})
	assert.Equal(t, float64(0), first["progress"])
	assert.Equal(t, "Test", first["user"].(map[string]interface{})["firstName"])

	// Progress update, in and out of bounds.
	w = doJSON(router, http.MethodPatch,
		fmt.Sprintf("/challenge/%d/participants/%d", challengeID, memberID), creatorToken,
		gin.H{"progress": 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPatch,
		fmt.Sprintf("/challenge/%d/participants/%d", challengeID, memberID), creatorToken,
		gin.H{"progress": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// getAll carries the participant count.
	w = doJSON(router, http.MethodGet, "/challenge/getAll", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	challenges := envelope(t, w)["challenges"].([]interface{})
	require.Len(t, challenges, 1)
	assert.Equal(t, float64(1), challenges[0].(map[string]interface{})["participantCount"])

	// The member's participations project the challenge.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/users/%d/participated-challenges", memberID), memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	participations := envelope(t, w)["participations"].([]interface{})
	require.Len(t, participations, 1)

	// Leave, then leaving again is a no-op error.
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/challenge/%d/leave", challengeID), memberToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/challenge/%d/leave", challengeID), memberToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Delete by title-bearing message.
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/challenge/delete/%d", challengeID), creatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Challenge '30-Day Plank' deleted successfully", envelope(t, w)["message"])

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/challenge/getById/%d", challengeID), creatorToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkoutFlow(t *testing.T) {
	router, _ := newTestServer(t)
	token := signUpAndIn(t, router, "lifter@example.com")

	// Bare plan, no splits yet.
	w := doJSON(router, http.MethodPost, "/workout/create-workout-plan", token, gin.H{
		"title": "Push/Pull/Legs",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	plan := envelope(t, w)["workoutPlan"].(map[string]interface{})
	planID := int(plan["id"].(float64))

	// Duplicate title conflicts.
	w = doJSON(router, http.MethodPost, "/workout/create-workout-plan", token, gin.H{
		"title": "Push/Pull/Legs",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Non-positive sets fail request validation.
	w = doJSON(router, http.MethodPost, "/workout/create-workout-plan", token, gin.H{
		"title": "Broken",
		"workoutSplits": []gin.H{
			{"workoutSplitName": "Day 1", "exercises": []gin.H{{"exerciseName": "Squat", "sets": 0}}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Add a split carrying one exercise.
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/workout/add-split/%d", planID), token, gin.H{
		"workoutSplitName": "Push Day",
		"exercises":        []gin.H{{"exerciseName": "Bench Press", "sets": 4}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	split := envelope(t, w)["workoutSplit"].(map[string]interface{})
	splitID := int(split["id"].(float64))

	// Same name under the same plan conflicts.
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/workout/add-split/%d", planID), token, gin.H{
		"workoutSplitName": "Push Day",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Split addressed through the wrong plan is a not-found.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/workout/get-split/%d/%d", planID+1, splitID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/workout/get-split/%d/%d", planID, splitID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The plan fetch returns the split with its exercise nested.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/workout/get-plan/%d", planID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := envelope(t, w)["workoutPlan"].(map[string]interface{})
	splits := fetched["workoutSplits"].([]interface{})
	require.Len(t, splits, 1)
	exercises := splits[0].(map[string]interface{})["exercises"].([]interface{})
	require.Len(t, exercises, 1)
	assert.Equal(t, "Bench Press", exercises[0].(map[string]interface{})["exerciseName"])
	assert.Equal(t, float64(4), exercises[0].(map[string]interface{})["sets"])

	// Deleting the plan takes the splits with it.
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/workout/delete-plan/%d", planID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/workout/get-split/%d/%d", planID, splitID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
