package calendar

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"main/internal/database"
	"main/internal/discord"
	"main/internal/metrics"
	"main/internal/model"
)

// eventSource lists the guild's scheduled events.
type eventSource interface {
	GuildScheduledEvents(ctx context.Context) ([]discord.ScheduledEvent, error)
}

// eventWriter writes mapped events to the user's calendar.
type eventWriter interface {
	CreateEvent(ctx context.Context, accessToken string, event model.ScheduledEvent) error
	RemoveEvent(ctx context.Context, accessToken, eventID string) error
}

// tokenSource resolves a usable access token for the user.
type tokenSource interface {
	AccessToken(ctx context.Context, userID string) (string, TokenState, error)
}

// Syncer links and unlinks a user's calendar against the guild's
// scheduled events. Per-event calendar calls are issued concurrently with
// no cap; one event failing does not stop the rest.
type Syncer struct {
	users  database.UserStore
	events eventSource
	writer eventWriter
	tokens tokenSource
	logger *zap.Logger
}

// NewSyncer wires a Syncer.
func NewSyncer(users database.UserStore, events eventSource, writer eventWriter, tokens tokenSource, logger *zap.Logger) *Syncer {
	return &Syncer{users: users, events: events, writer: writer, tokens: tokens, logger: logger}
}

// LinkCalendar marks the user linked and pushes every scheduled event to
// their calendar. Already-linked users and users whose google token turns
// out revoked are silent no-ops.
func (s *Syncer) LinkCalendar(ctx context.Context, user *model.User) error {
	if user == nil || user.IsLinkedToCalendar {
		return nil
	}

	token, state, err := s.tokens.AccessToken(ctx, user.ID)
	if err != nil {
		return err
	}
	if state != StateActive {
		metrics.RecordCalendarSync("link", "revoked")
		return nil
	}

	if err := s.users.SetLinkedToCalendar(user.ID, true); err != nil {
		return err
	}

	return s.forEachEvent(ctx, "link", func(ctx context.Context, event discord.ScheduledEvent) error {
		return s.writer.CreateEvent(ctx, token, TransformScheduledEvent(event))
	})
}

// UnlinkCalendar clears the linked flag and removes every scheduled event
// from the user's calendar.
func (s *Syncer) UnlinkCalendar(ctx context.Context, user *model.User) error {
	if user == nil || !user.IsLinkedToCalendar {
		return nil
	}

	token, state, err := s.tokens.AccessToken(ctx, user.ID)
	if err != nil {
		return err
	}
	if state != StateActive {
		metrics.RecordCalendarSync("unlink", "revoked")
		return nil
	}

	if err := s.users.SetLinkedToCalendar(user.ID, false); err != nil {
		return err
	}

	return s.forEachEvent(ctx, "unlink", func(ctx context.Context, event discord.ScheduledEvent) error {
		return s.writer.RemoveEvent(ctx, token, event.ID)
	})
}

func (s *Syncer) forEachEvent(ctx context.Context, op string, apply func(context.Context, discord.ScheduledEvent) error) error {
	events, err := s.events.GuildScheduledEvents(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, event := range events {
		wg.Add(1)
		go func(event discord.ScheduledEvent) {
			defer wg.Done()
			if err := apply(ctx, event); err != nil {
				metrics.RecordCalendarSync(op, "failure")
				s.logger.Warn("calendar event sync failed",
					zap.String("op", op),
					zap.String("event_id", event.ID),
					zap.Error(err))
				return
			}
			metrics.RecordCalendarSync(op, "success")
		}(event)
	}
	wg.Wait()
	return nil
}
