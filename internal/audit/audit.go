// Package audit posts structured audit records to an outbound webhook.
// The webhook is a logging sink, not a store: a failed delivery is not
// persisted anywhere locally.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"main/internal/model"
)

// suppressNotifications is the webhook message flag that keeps audit spam
// from pinging the channel.
const suppressNotifications = 4096

// Sender delivers one audit event per call. Callers must redact token and
// account secret material from the payload before handing it over.
type Sender struct {
	http       *http.Client
	webhookURL string
}

// NewSender builds a Sender for the configured webhook URL.
func NewSender(webhookURL string) *Sender {
	return &Sender{
		http:       &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
	}
}

// Send posts the event as a multipart webhook message: a payload_json part
// carrying a code-block summary styled as the user (name + avatar), and a
// message.json attachment with the full event payload.
func (s *Sender) Send(ctx context.Context, event string, payload map[string]any, user *model.User) error {
	summary := map[string]any{"method": event}
	attachment := map[string]any{"method": event}
	if user != nil {
		userJSON, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(userJSON, &summary); err != nil {
			return err
		}
		summary["method"] = event
	}
	for k, v := range payload {
		attachment[k] = v
	}

	content, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	envelope := map[string]any{
		"content": "```json\n" + string(content) + "\n```",
		"flags":   suppressNotifications,
	}
	if user != nil {
		envelope["username"] = user.Name
		if user.Image != nil {
			envelope["avatar_url"] = *user.Image
		}
	}
	envelopeJSON, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	attachmentJSON, err := json.MarshalIndent(attachment, "", "  ")
	if err != nil {
		return err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("payload_json", string(envelopeJSON)); err != nil {
		return err
	}
	file, err := w.CreateFormFile("file[0]", "message.json")
	if err != nil {
		return err
	}
	if _, err := file.Write(attachmentJSON); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("audit: posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("audit: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
