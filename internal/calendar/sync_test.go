package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"main/internal/discord"
	"main/internal/model"
)

type MockEventSource struct {
	mock.Mock
}

func (m *MockEventSource) GuildScheduledEvents(ctx context.Context) ([]discord.ScheduledEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discord.ScheduledEvent), args.Error(1)
}

type MockEventWriter struct {
	mock.Mock
}

func (m *MockEventWriter) CreateEvent(ctx context.Context, accessToken string, event model.ScheduledEvent) error {
	args := m.Called(ctx, accessToken, event)
	return args.Error(0)
}

func (m *MockEventWriter) RemoveEvent(ctx context.Context, accessToken, eventID string) error {
	args := m.Called(ctx, accessToken, eventID)
	return args.Error(0)
}

type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) AccessToken(ctx context.Context, userID string) (string, TokenState, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(TokenState), args.Error(2)
}

func guildEvents() []discord.ScheduledEvent {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []discord.ScheduledEvent{
		{ID: "event-1", GuildID: "guild-1", Name: "Meetup", StartTime: start},
		{ID: "event-2", GuildID: "guild-1", Name: "Hack night", StartTime: start.Add(24 * time.Hour)},
	}
}

func linkedUser(linked bool) *model.User {
	return &model.User{ID: "user-123", Name: "Test User", IsLinkedToCalendar: linked}
}

func TestSyncer_LinkCalendar(t *testing.T) {
	t.Run("pushes every scheduled event to the calendar", func(t *testing.T) {
		users := new(MockUserStore)
		events := new(MockEventSource)
		writer := new(MockEventWriter)
		tokens := new(MockTokenSource)

		tokens.On("AccessToken", mock.Anything, "user-123").Return("token", StateActive, nil)
		users.On("SetLinkedToCalendar", "user-123", true).Return(nil)
		events.On("GuildScheduledEvents", mock.Anything).Return(guildEvents(), nil)
		writer.On("CreateEvent", mock.Anything, "token", mock.MatchedBy(func(e model.ScheduledEvent) bool {
			return e.ID == "event-1"
		})).Return(nil)
		writer.On("CreateEvent", mock.Anything, "token", mock.MatchedBy(func(e model.ScheduledEvent) bool {
			return e.ID == "event-2"
		})).Return(nil)

		s := NewSyncer(users, events, writer, tokens, zap.NewNop())
		err := s.LinkCalendar(context.Background(), linkedUser(false))

		require.NoError(t, err)
		users.AssertExpectations(t)
		events.AssertExpectations(t)
		writer.AssertExpectations(t)
	})

	t.Run("one failing event does not stop the rest", func(t *testing.T) {
		users := new(MockUserStore)
		events := new(MockEventSource)
		writer := new(MockEventWriter)
		tokens := new(MockTokenSource)

		tokens.On("AccessToken", mock.Anything, "user-123").Return("token", StateActive, nil)
		users.On("SetLinkedToCalendar", "user-123", true).Return(nil)
		events.On("GuildScheduledEvents", mock.Anything).Return(guildEvents(), nil)
		writer.On("CreateEvent", mock.Anything, "token", mock.MatchedBy(func(e model.ScheduledEvent) bool {
			return e.ID == "event-1"
		})).Return(errors.New("calendar unavailable"))
		writer.On("CreateEvent", mock.Anything, "token", mock.MatchedBy(func(e model.ScheduledEvent) bool {
			return e.ID == "event-2"
		})).Return(nil)

		s := NewSyncer(users, events, writer, tokens, zap.NewNop())
		err := s.LinkCalendar(context.Background(), linkedUser(false))

		require.NoError(t, err)
		writer.AssertExpectations(t)
	})

	t.Run("already linked user is a no-op", func(t *testing.T) {
		users := new(MockUserStore)
		events := new(MockEventSource)
		writer := new(MockEventWriter)
		tokens := new(MockTokenSource)

		s := NewSyncer(users, events, writer, tokens, zap.NewNop())
		err := s.LinkCalendar(context.Background(), linkedUser(true))

		require.NoError(t, err)
		tokens.AssertNotCalled(t, "AccessToken", mock.Anything, mock.Anything)
		users.AssertNotCalled(t, "SetLinkedToCalendar", mock.Anything, mock.Anything)
	})

	t.Run("revoked token is a silent no-op", func(t *testing.T) {
		users := new(MockUserStore)
		events := new(MockEventSource)
		writer := new(MockEventWriter)
		tokens := new(MockTokenSource)

		tokens.On("AccessToken", mock.Anything, "user-123").Return("", StateRevoked, nil)

		s := NewSyncer(users, events, writer, tokens, zap.NewNop())
		err := s.LinkCalendar(context.Background(), linkedUser(false))

		require.NoError(t, err)
		users.AssertNotCalled(t, "SetLinkedToCalendar", mock.Anything, mock.Anything)
		events.AssertNotCalled(t, "GuildScheduledEvents", mock.Anything)
	})
}

func TestSyncer_UnlinkCalendar(t *testing.T) {
	t.Run("removes every scheduled event", func(t *testing.T) {
		users := new(MockUserStore)
		events := new(MockEventSource)
		writer := new(MockEventWriter)
		tokens := new(MockTokenSource)

		tokens.On("AccessToken", mock.Anything, "user-123").Return("token", StateActive, nil)
		users.On("SetLinkedToCalendar", "user-123", false).Return(nil)
		events.On("GuildScheduledEvents", mock.Anything).Return(guildEvents(), nil)
		writer.On("RemoveEvent", mock.Anything, "token", "event-1").Return(nil)
		writer.On("RemoveEvent", mock.Anything, "token", "event-2").Return(nil)

		s := NewSyncer(users, events, writer, tokens, zap.NewNop())
		err := s.UnlinkCalendar(context.Background(), linkedUser(true))

		require.NoError(t, err)
		users.AssertExpectations(t)
		writer.AssertExpectations(t)
	})

	t.Run("not linked user is a no-op", func(t *testing.T) {
		users := new(MockUserStore)
		events := new(MockEventSource)
		writer := new(MockEventWriter)
		tokens := new(MockTokenSource)

		s := NewSyncer(users, events, writer, tokens, zap.NewNop())
		err := s.UnlinkCalendar(context.Background(), linkedUser(false))

		require.NoError(t, err)
		tokens.AssertNotCalled(t, "AccessToken", mock.Anything, mock.Anything)
	})

	t.Run("nil user is a no-op", func(t *testing.T) {
		s := NewSyncer(new(MockUserStore), new(MockEventSource), new(MockEventWriter), new(MockTokenSource), zap.NewNop())
		assert.NoError(t, s.LinkCalendar(context.Background(), nil))
		assert.NoError(t, s.UnlinkCalendar(context.Background(), nil))
	})
}
