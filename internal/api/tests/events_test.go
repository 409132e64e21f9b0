package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civitoken/server/internal/api/testutils"
	"github.com/civitoken/server/internal/models"
)

func TestListEvents(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: full listing, sorted ascending by event date
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var events []models.Event
	testutils.DecodeJSON(t, w, &events)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].EventDate.Before(events[i-1].EventDate),
			"events must be sorted ascending by date")
	}

	// Test case 2: status filter
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/events?status=upcoming", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	testutils.DecodeJSON(t, w, &events)
	require.Len(t, events, 3)
	for _, event := range events {
		assert.Equal(t, models.EventUpcoming, event.Status)
	}

	// Test case 3: limit is a simple prefix cap over the sorted list
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/events?limit=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	testutils.DecodeJSON(t, w, &events)
	require.Len(t, events, 2)
	assert.False(t, events[1].EventDate.Before(events[0].EventDate))

	// Test case 4: malformed limit is ignored
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/events?limit=abc", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	testutils.DecodeJSON(t, w, &events)
	assert.Len(t, events, 4)
}

func TestGetEvent(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: existing event
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/events/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var event models.Event
	testutils.DecodeJSON(t, w, &event)
	assert.Equal(t, "1", event.ID)
	assert.Equal(t, "Neighborhood Clean-up", event.Title)
	assert.Equal(t, int64(150), event.TokensReward)

	// Test case 2: unknown event id
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/events/no-such-event", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Event not found", errResp.Error)
}
