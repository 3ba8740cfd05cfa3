package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"main/internal/model"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newCalendarTestServer(t *testing.T, insertStatus int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	requests := &[]recordedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		mu.Lock()
		*requests = append(*requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		mu.Unlock()

		if r.Method == http.MethodPost && insertStatus != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(insertStatus)
			w.Write([]byte(`{"error":{"code":409,"message":"The requested identifier already exists."}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"event-1"}`))
	}))

	return srv, requests
}

func testEvent() model.ScheduledEvent {
	rrule := "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE"
	url := "https://discord.com/events/guild-1/event-1"
	return model.ScheduledEvent{
		ID:         "event-1",
		Name:       "Meetup",
		StartTime:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Recurrence: &rrule,
		URL:        &url,
	}
}

func TestClient_CreateEvent(t *testing.T) {
	t.Run("clean insert issues exactly one call", func(t *testing.T) {
		srv, requests := newCalendarTestServer(t, http.StatusOK)
		defer srv.Close()

		client := NewClient("Asia/Tokyo", option.WithEndpoint(srv.URL))
		err := client.CreateEvent(context.Background(), "token", testEvent())

		require.NoError(t, err)
		require.Len(t, *requests, 1)
		assert.Equal(t, http.MethodPost, (*requests)[0].Method)
		assert.Equal(t, "/calendars/primary/events", (*requests)[0].Path)
	})

	t.Run("409 on insert retries once as update to the same id", func(t *testing.T) {
		srv, requests := newCalendarTestServer(t, http.StatusConflict)
		defer srv.Close()

		client := NewClient("Asia/Tokyo", option.WithEndpoint(srv.URL))
		err := client.CreateEvent(context.Background(), "token", testEvent())

		require.NoError(t, err)
		require.Len(t, *requests, 2)
		assert.Equal(t, http.MethodPost, (*requests)[0].Method)
		assert.Equal(t, "/calendars/primary/events", (*requests)[0].Path)
		assert.Equal(t, http.MethodPut, (*requests)[1].Method)
		assert.Equal(t, "/calendars/primary/events/event-1", (*requests)[1].Path)
	})

	t.Run("event body carries id, times, source and recurrence", func(t *testing.T) {
		srv, requests := newCalendarTestServer(t, http.StatusOK)
		defer srv.Close()

		client := NewClient("Asia/Tokyo", option.WithEndpoint(srv.URL))
		err := client.CreateEvent(context.Background(), "token", testEvent())

		require.NoError(t, err)
		require.Len(t, *requests, 1)
		body := (*requests)[0].Body
		assert.Equal(t, "event-1", body["id"])
		assert.Equal(t, "Meetup", body["summary"])

		start := body["start"].(map[string]any)
		assert.Equal(t, "2025-03-01T10:00:00Z", start["dateTime"])
		assert.Equal(t, "Asia/Tokyo", start["timeZone"])

		// End defaults to one hour after start.
		end := body["end"].(map[string]any)
		assert.Equal(t, "2025-03-01T11:00:00Z", end["dateTime"])

		source := body["source"].(map[string]any)
		assert.Equal(t, "Meetup", source["title"])
		assert.Equal(t, "https://discord.com/events/guild-1/event-1", source["url"])

		recurrence := body["recurrence"].([]any)
		assert.Equal(t, []any{"RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE"}, recurrence)
	})
}

func TestClient_RemoveEvent(t *testing.T) {
	srv, requests := newCalendarTestServer(t, http.StatusOK)
	defer srv.Close()

	client := NewClient("Asia/Tokyo", option.WithEndpoint(srv.URL))
	err := client.RemoveEvent(context.Background(), "token", "event-1")

	require.NoError(t, err)
	require.Len(t, *requests, 1)
	assert.Equal(t, http.MethodDelete, (*requests)[0].Method)
	assert.Equal(t, "/calendars/primary/events/event-1", (*requests)[0].Path)
}
