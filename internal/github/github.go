// Package github checks and manages organization membership through the
// GitHub REST API, authenticated with a service token.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Client calls the GitHub organization endpoints for one configured org.
type Client struct {
	http        *http.Client
	baseURL     string
	accessToken string
	org         string
}

// NewClient builds a Client for the given organization using a service
// access token (not the signing-in user's token).
func NewClient(accessToken, org string) *Client {
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
		org:         org,
	}
}

// SetBaseURL points the client at a different API root. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

// IsJoinedOrganization reports whether username is a member of the org.
// The endpoint signals membership with 204 No Content; every other status,
// 404 included, means not a member.
func (c *Client) IsJoinedOrganization(ctx context.Context, username string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orgs/"+c.org+"/members/"+username, nil)
	if err != nil {
		return false, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusNoContent, nil
}

// CreateOrganizationInvitation invites the GitHub user with the given
// numeric id to the org. Success is 201 Created.
func (c *Client) CreateOrganizationInvitation(ctx context.Context, inviteeID int64) (bool, error) {
	body, err := json.Marshal(map[string]int64{"invitee_id": inviteeID})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orgs/"+c.org+"/invitations", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("github: creating invitation: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusCreated, nil
}
