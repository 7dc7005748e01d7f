package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationFlow(t *testing.T) {
	app, s := newTestApp(t)
	author, authorToken := createTestUser(t, s, "user")
	_, voterToken := createTestUser(t, s, "user")
	q1 := createTestQuestion(t, s, author, "go")
	q2 := createTestQuestion(t, s, author, "go")

	for _, q := range []uint{q1.ID, q2.ID} {
		status, _ := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/questions/%d/upvote", q), voterToken, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", authorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["unread_count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/notifications", authorToken, nil)
	require.Equal(t, http.StatusOK, status)
	items := body["notifications"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "upvote", first["kind"])
	assert.Contains(t, first["message"], "upvoted your question")
	firstID := uint(first["id"].(float64))

	// Marking one read drops the unread count.
	status, _ = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/notifications/%d/read", firstID), authorToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", authorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["unread_count"])

	// Another user cannot mark it read.
	status, _ = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/notifications/%d/read", firstID), voterToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodPut, "/api/notifications/read-all", authorToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", authorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["unread_count"])
}
