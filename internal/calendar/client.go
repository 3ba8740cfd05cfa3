// Package calendar syncs guild scheduled events into the user's Google
// Calendar: RRULE serialization, event mapping, the calendar API client
// and the token refresh state machine.
package calendar

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"main/internal/model"
)

// Client writes events to the primary Google Calendar of the user whose
// access token each call receives.
type Client struct {
	timeZone string
	opts     []option.ClientOption // extra service options, tests inject an endpoint here
}

// NewClient builds a Client rendering event times in the given zone.
func NewClient(timeZone string, opts ...option.ClientOption) *Client {
	return &Client{timeZone: timeZone, opts: opts}
}

func (c *Client) service(ctx context.Context, accessToken string) (*calapi.Service, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}, c.opts...)
	return calapi.NewService(ctx, opts...)
}

func (c *Client) eventBody(event model.ScheduledEvent) *calapi.Event {
	body := &calapi.Event{
		Id:      event.ID,
		Summary: event.Name,
		Start: &calapi.EventDateTime{
			DateTime: event.StartTime.Format(time.RFC3339),
			TimeZone: c.timeZone,
		},
		// Scheduled events rarely carry an end time; one hour after start
		// matches the portal's existing calendars.
		End: &calapi.EventDateTime{
			DateTime: event.StartTime.Add(time.Hour).Format(time.RFC3339),
			TimeZone: c.timeZone,
		},
		Source: &calapi.EventSource{Title: event.Name},
	}
	if event.Description != nil {
		body.Description = *event.Description
	}
	if event.Location != nil {
		body.Location = *event.Location
	}
	if event.URL != nil {
		body.Source.Url = *event.URL
	}
	if event.Recurrence != nil {
		body.Recurrence = []string{*event.Recurrence}
	}
	return body
}

// CreateEvent inserts the event. A 409 means the id already exists (or was
// deleted from the calendar UI, which leaves a cancelled tombstone); it is
// retried exactly once as an update to the same id.
func (c *Client) CreateEvent(ctx context.Context, accessToken string, event model.ScheduledEvent) error {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return err
	}

	body := c.eventBody(event)
	_, err = svc.Events.Insert("primary", body).Context(ctx).Do()
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
		_, err = svc.Events.Update("primary", event.ID, body).Context(ctx).Do()
	}
	return err
}

// UpdateEvent overwrites the stored event with the mapped body.
func (c *Client) UpdateEvent(ctx context.Context, accessToken string, event model.ScheduledEvent) error {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return err
	}
	_, err = svc.Events.Update("primary", event.ID, c.eventBody(event)).Context(ctx).Do()
	return err
}

// RemoveEvent deletes the event with the given id.
func (c *Client) RemoveEvent(ctx context.Context, accessToken, eventID string) error {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return err
	}
	return svc.Events.Delete("primary", eventID).Context(ctx).Do()
}
