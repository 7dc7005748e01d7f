package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteHandlers_RequireAuthentication(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPut, "/api/questions/1/upvote", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestVoteHandlers_UpvoteTogglesOff(t *testing.T) {
	app, s := newTestApp(t)
	author, _ := createTestUser(t, s, "user")
	_, voterToken := createTestUser(t, s, "user")
	question := createTestQuestion(t, s, author, "go")
	path := fmt.Sprintf("/api/questions/%d/upvote", question.ID)

	status, body := doJSON(t, app, http.MethodPut, path, voterToken, nil)
	require.Equal(t, http.StatusOK, status)
	transition := body["transition"].(map[string]any)
	assert.Equal(t, float64(0), transition["before"])
	assert.Equal(t, float64(1), transition["after"])
	assert.Equal(t, float64(1), body["upvotes"])
	assert.Equal(t, float64(1), body["viewer_vote"])

	// Same direction again removes the vote.
	status, body = doJSON(t, app, http.MethodPut, path, voterToken, nil)
	require.Equal(t, http.StatusOK, status)
	transition = body["transition"].(map[string]any)
	assert.Equal(t, float64(1), transition["before"])
	assert.Equal(t, float64(0), transition["after"])
	assert.Equal(t, float64(0), body["upvotes"])
	assert.Equal(t, float64(0), body["viewer_vote"])
}

func TestVoteHandlers_DownvoteThenUpvoteSwaps(t *testing.T) {
	app, s := newTestApp(t)
	author, _ := createTestUser(t, s, "user")
	_, voterToken := createTestUser(t, s, "user")
	question := createTestQuestion(t, s, author, "go")
	base := fmt.Sprintf("/api/questions/%d", question.ID)

	status, body := doJSON(t, app, http.MethodPut, base+"/downvote", voterToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["downvotes"])
	assert.Equal(t, float64(-1), body["viewer_vote"])

	status, body = doJSON(t, app, http.MethodPut, base+"/upvote", voterToken, nil)
	require.Equal(t, http.StatusOK, status)
	transition := body["transition"].(map[string]any)
	assert.Equal(t, float64(-1), transition["before"])
	assert.Equal(t, float64(1), transition["after"])
	assert.Equal(t, float64(1), body["upvotes"])
	assert.Equal(t, float64(0), body["downvotes"])
}

func TestVoteHandlers_UpvoteNotifiesAuthorOnce(t *testing.T) {
	app, s := newTestApp(t)
	author, _ := createTestUser(t, s, "user")
	_, voterToken := createTestUser(t, s, "user")
	question := createTestQuestion(t, s, author, "go")
	path := fmt.Sprintf("/api/questions/%d/upvote", question.ID)

	// Upvote, toggle off, upvote again: each entry into the upvoted state
	// notifies, so the author ends up with two notifications.
	for i := 0; i < 3; i++ {
		status, _ := doJSON(t, app, http.MethodPut, path, voterToken, nil)
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, int64(2), countNotifications(t, author.ID))
}

func TestVoteHandlers_SelfUpvoteDoesNotNotify(t *testing.T) {
	app, s := newTestApp(t)
	author, authorToken := createTestUser(t, s, "user")
	question := createTestQuestion(t, s, author, "go")

	status, _ := doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/questions/%d/upvote", question.ID), authorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, countNotifications(t, author.ID))
}

func TestVoteHandlers_UnknownTargetIs404(t *testing.T) {
	app, s := newTestApp(t)
	_, token := createTestUser(t, s, "user")

	status, body := doJSON(t, app, http.MethodPut, "/api/questions/999999/upvote", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestGetMyVotes(t *testing.T) {
	app, s := newTestApp(t)
	author, _ := createTestUser(t, s, "user")
	voter, voterToken := createTestUser(t, s, "user")
	q1 := createTestQuestion(t, s, author, "go")
	q2 := createTestQuestion(t, s, author, "go")

	ctx := t.Context()
	_, err := s.voteRepo.Apply(ctx, voter.ID, "question", q1.ID, 1)
	require.NoError(t, err)
	_, err = s.voteRepo.Apply(ctx, voter.ID, "question", q2.ID, -1)
	require.NoError(t, err)

	status, body := doJSON(t, app, http.MethodGet, "/api/users/me/votes", voterToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{float64(q1.ID)}, body["upvoted_questions"])
	assert.Equal(t, []any{float64(q2.ID)}, body["downvoted_questions"])
	assert.Empty(t, body["upvoted_answers"])
	assert.Empty(t, body["downvoted_answers"])
}
