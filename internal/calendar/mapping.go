package calendar

import (
	"main/internal/discord"
	"main/internal/model"
)

// TransformScheduledEvent projects a guild scheduled event onto the
// normalized calendar shape, serializing the recurrence rule when present.
func TransformScheduledEvent(event discord.ScheduledEvent) model.ScheduledEvent {
	out := model.ScheduledEvent{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		CreatorID:   event.CreatorID,
	}
	if event.EntityMetadata != nil {
		out.Location = event.EntityMetadata.Location
	}
	if event.RecurrenceRule != nil {
		rrule := ConvertRecurrenceRule(*event.RecurrenceRule)
		out.Recurrence = &rrule
	}
	url := "https://discord.com/events/" + event.GuildID + "/" + event.ID
	out.URL = &url
	return out
}
