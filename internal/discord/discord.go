// Package discord is a thin client for the handful of Discord REST calls
// the portal needs: the guild-membership probe, bot direct messages and
// the guild scheduled-event listing.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"main/internal/model"
)

const defaultBaseURL = "https://discord.com/api/v10"

// Client calls the Discord REST API. Membership probes use the signed-in
// user's bearer token; everything else authenticates as the bot.
type Client struct {
	http        *http.Client
	baseURL     string
	botToken    string
	guildID     string
	guildIDPrev string // pagination cursor, sorts immediately before guildID
}

// NewClient builds a Client for the configured guild. guildIDPrev is the
// "after" cursor handed to the guild listing endpoint.
func NewClient(botToken, guildID, guildIDPrev string) *Client {
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		baseURL:     defaultBaseURL,
		botToken:    botToken,
		guildID:     guildID,
		guildIDPrev: guildIDPrev,
	}
}

// SetBaseURL points the client at a different API root. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// IsJoinedGuild reports whether the user owning accessToken is a member of
// the configured guild. It fetches the single guild page after the cursor
// id and looks for the target guild in it. Only reliable while the target
// guild sorts immediately after the cursor; kept as upstream behaves.
func (c *Client) IsJoinedGuild(ctx context.Context, accessToken string) (bool, error) {
	url := fmt.Sprintf("%s/users/@me/guilds?after=%s&limit=1", c.baseURL, c.guildIDPrev)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var guilds []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&guilds); err != nil {
		return false, fmt.Errorf("discord: decoding guild page: %w", err)
	}

	for _, g := range guilds {
		if g.ID == c.guildID {
			return true, nil
		}
	}
	return false, nil
}

// SendDirectMessage opens (or reuses) the DM channel with the user and
// posts the message. Two sequential bot calls; no retry.
func (c *Client) SendDirectMessage(ctx context.Context, userID, message string) error {
	channel := struct {
		ID string `json:"id"`
	}{}
	err := c.post(ctx, "/users/@me/channels", map[string]string{"recipient_id": userID}, &channel)
	if err != nil {
		return fmt.Errorf("discord: opening DM channel: %w", err)
	}

	err = c.post(ctx, "/channels/"+channel.ID+"/messages", map[string]string{"content": message}, nil)
	if err != nil {
		return fmt.Errorf("discord: sending DM: %w", err)
	}
	return nil
}

// GuildScheduledEvents lists the configured guild's scheduled events.
func (c *Client) GuildScheduledEvents(ctx context.Context) ([]ScheduledEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/guilds/"+c.guildID+"/scheduled-events", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord: listing scheduled events: status %d", resp.StatusCode)
	}

	var events []ScheduledEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("discord: decoding scheduled events: %w", err)
	}
	return events, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d from %s", resp.StatusCode, path)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// ScheduledEvent is the wire shape of a guild scheduled event.
type ScheduledEvent struct {
	ID             string                `json:"id"`
	GuildID        string                `json:"guild_id"`
	Name           string                `json:"name"`
	Description    *string               `json:"description"`
	StartTime      time.Time             `json:"scheduled_start_time"`
	EndTime        *time.Time            `json:"scheduled_end_time"`
	CreatorID      *string               `json:"creator_id"`
	EntityMetadata *EntityMetadata       `json:"entity_metadata"`
	RecurrenceRule *model.RecurrenceRule `json:"recurrence_rule"`
}

// EntityMetadata carries the external-event location, when set.
type EntityMetadata struct {
	Location *string `json:"location"`
}
