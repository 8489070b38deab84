package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlife/challenge-api/internal/domain"
)

func newChallengeService(t *testing.T) (ChallengeService, testRepos, *fakeStorage) {
	t.Helper()
	db := newTestDB(t)
	repos := newTestRepos(db)
	store := newFakeStorage()
	svc := NewChallengeService(repos.challenges, repos.enrollments, repos.users, store)
	return svc, repos, store
}

func TestCreateChallengeWithImage(t *testing.T) {
	svc, repos, store := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "Cara", "Reyes")

	challenge, err := svc.Create(context.Background(), creator.ID, CreateChallengeInput{
		Title:       "30 Day Squats",
		Description: "Squats every day",
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 1, 0),
	}, &ImageUpload{
		Body:        strings.NewReader("fake-png-bytes"),
		ContentType: "image/png",
		Ext:         ".png",
	})
	require.NoError(t, err)

	assert.Equal(t, creator.ID, challenge.CreatorID)
	require.NotEmpty(t, challenge.Image)
	assert.True(t, strings.HasSuffix(challenge.Image, ".png"))
	assert.Contains(t, store.objects, challenge.Image)
}

func TestJoinAndDoubleJoin(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")
	joiner := mustCreateUser(t, repos, "joiner@example.com", "Jo", "Iner")
	challenge := mustCreateChallenge(t, repos, creator.ID, "c", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())

	enrollment, err := svc.Join(context.Background(), joiner.ID, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MinProgress, enrollment.Progress)

	_, err = svc.Join(context.Background(), joiner.ID, challenge.ID)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestJoinMissingSides(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	user := mustCreateUser(t, repos, "u@example.com", "", "")

	_, err := svc.Join(context.Background(), user.ID, 9999)
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	challenge := mustCreateChallenge(t, repos, user.ID, "c", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())
	_, err = svc.Join(context.Background(), 9999, challenge.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLeaveUnjoined(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")
	user := mustCreateUser(t, repos, "u@example.com", "", "")
	challenge := mustCreateChallenge(t, repos, creator.ID, "c", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())

	err := svc.Leave(context.Background(), user.ID, challenge.ID)
	assert.ErrorIs(t, err, ErrNotJoined)

	_, err = svc.Join(context.Background(), user.ID, challenge.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Leave(context.Background(), user.ID, challenge.ID))

	// Leaving twice fails the second time.
	err = svc.Leave(context.Background(), user.ID, challenge.ID)
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestUpdateParticipationBounds(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")
	user := mustCreateUser(t, repos, "u@example.com", "", "")
	challenge := mustCreateChallenge(t, repos, creator.ID, "c", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())

	_, err := svc.Join(context.Background(), user.ID, challenge.ID)
	require.NoError(t, err)

	for _, progress := range []int{-1, 101, 1000} {
		_, err := svc.UpdateParticipation(context.Background(), challenge.ID, user.ID, progress)
		assert.ErrorIs(t, err, ErrInvalidProgress, "progress %d must be rejected", progress)
	}

	enrollment, err := svc.UpdateParticipation(context.Background(), challenge.ID, user.ID, 55)
	require.NoError(t, err)
	assert.Equal(t, 55, enrollment.Progress)

	// Unknown participant is Not-Found, not a silent write.
	_, err = svc.UpdateParticipation(context.Background(), challenge.ID, creator.ID, 10)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestListPagination(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "Cara", "Reyes")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 15; i++ {
		mustCreateChallenge(t, repos, creator.ID, fmt.Sprintf("challenge-%02d", i),
			base, base.AddDate(0, 1, 0), base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, page1, 10)
	// Newest first: challenge-15 leads.
	assert.Equal(t, "challenge-15", page1[0].Challenge.Title)
	assert.Equal(t, "challenge-06", page1[9].Challenge.Title)

	page2, err := svc.List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, page2, 5)
	assert.Equal(t, "challenge-05", page2[0].Challenge.Title)
	assert.Equal(t, "challenge-01", page2[4].Challenge.Title)

	// A page past the data is an empty list, not an error.
	page3, err := svc.List(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Empty(t, page3)
}

func TestListAnnotatesParticipantCounts(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "Cara", "Reyes")

	challenge := mustCreateChallenge(t, repos, creator.ID, "counted", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())

	for i := 0; i < 3; i++ {
		member := mustCreateUser(t, repos, fmt.Sprintf("m%d@example.com", i), "", "")
		_, err := svc.Join(context.Background(), member.ID, challenge.ID)
		require.NoError(t, err)
	}

	summaries, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(3), summaries[0].ParticipantCount)
	require.NotNil(t, summaries[0].Challenge.Creator)
	assert.Equal(t, "Cara", summaries[0].Challenge.Creator.FirstName)
}

func TestParticipantsRequiresEnrollments(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")
	challenge := mustCreateChallenge(t, repos, creator.ID, "lonely", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())

	_, err := svc.Participants(context.Background(), challenge.ID, 1, 10)
	assert.ErrorIs(t, err, ErrNoParticipants)

	_, err = svc.Participants(context.Background(), 9999, 1, 10)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestWindowQueries(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")

	now := time.Now()
	mustCreateChallenge(t, repos, creator.ID, "running", now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), now)
	mustCreateChallenge(t, repos, creator.ID, "done", now.AddDate(0, 0, -10), now.AddDate(0, 0, -5), now)
	mustCreateChallenge(t, repos, creator.ID, "later", now.AddDate(0, 0, 5), now.AddDate(0, 0, 10), now)

	active, err := svc.ListByWindow(context.Background(), domain.WindowActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "running", active[0].Challenge.Title)

	completed, err := svc.ListByWindow(context.Background(), domain.WindowCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "done", completed[0].Challenge.Title)

	upcoming, err := svc.ListByWindow(context.Background(), domain.WindowUpcoming)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "later", upcoming[0].Challenge.Title)
}

func TestWindowQueryEmptyIsError(t *testing.T) {
	svc, _, _ := newChallengeService(t)

	_, err := svc.ListByWindow(context.Background(), domain.WindowActive)
	assert.ErrorIs(t, err, ErrNoChallengesFound)
}

func TestUpdateChallengeReplacesImage(t *testing.T) {
	svc, repos, store := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")

	challenge, err := svc.Create(context.Background(), creator.ID, CreateChallengeInput{
		Title:     "original",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 7),
	}, &ImageUpload{Body: strings.NewReader("v1"), ContentType: "image/jpeg", Ext: ".jpg"})
	require.NoError(t, err)
	oldKey := challenge.Image

	newTitle := "renamed"
	updated, err := svc.Update(context.Background(), challenge.ID, UpdateChallengeInput{Title: &newTitle},
		&ImageUpload{Body: strings.NewReader("v2"), ContentType: "image/png", Ext: ".png"})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.NotEqual(t, oldKey, updated.Image)
	assert.Contains(t, store.deleted, oldKey)
	// Unsupplied fields survive the partial update.
	assert.Equal(t, challenge.StartDate.Unix(), updated.StartDate.Unix())
}

func TestDeleteChallenge(t *testing.T) {
	svc, repos, store := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")

	challenge, err := svc.Create(context.Background(), creator.ID, CreateChallengeInput{
		Title:     "doomed",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 7),
	}, &ImageUpload{Body: strings.NewReader("img"), ContentType: "image/png", Ext: ".png"})
	require.NoError(t, err)

	title, err := svc.Delete(context.Background(), challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "doomed", title)
	assert.Contains(t, store.deleted, challenge.Image)

	_, err = svc.GetByID(context.Background(), challenge.ID)
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	_, err = svc.Delete(context.Background(), challenge.ID)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestParticipationsProjectChallenge(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")
	user := mustCreateUser(t, repos, "u@example.com", "", "")

	first := mustCreateChallenge(t, repos, creator.ID, "first", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())
	second := mustCreateChallenge(t, repos, creator.ID, "second", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())

	_, err := svc.Join(context.Background(), user.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), user.ID, second.ID)
	require.NoError(t, err)

	participations, err := svc.Participations(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, participations, 2)
	for _, p := range participations {
		require.NotNil(t, p.Challenge)
		assert.NotEmpty(t, p.Challenge.Title)
	}

	_, err = svc.Participations(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestImageURL(t *testing.T) {
	svc, repos, _ := newChallengeService(t)
	creator := mustCreateUser(t, repos, "creator@example.com", "", "")

	withImage, err := svc.Create(context.Background(), creator.ID, CreateChallengeInput{
		Title:     "pictured",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 7),
	}, &ImageUpload{Body: strings.NewReader("img"), ContentType: "image/png", Ext: ".png"})
	require.NoError(t, err)

	url, err := svc.ImageURL(context.Background(), withImage.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/"+withImage.Image, url)

	bare := mustCreateChallenge(t, repos, creator.ID, "bare", time.Now(), time.Now().AddDate(0, 0, 7), time.Now())
	_, err = svc.ImageURL(context.Background(), bare.ID)
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = svc.ImageURL(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}
