package model

import "time"

// User is the durable identity record. One row links up to three provider
// identities; the internal ID never changes after creation.
type User struct {
	ID                   string    `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Email                *string   `json:"email" db:"email"`
	Image                *string   `json:"image" db:"image"`
	DiscordUserID        *string   `json:"discordUserId" db:"discord_user_id"`
	GithubUserID         *int64    `json:"githubUserId" db:"github_user_id"`
	GithubUserName       *string   `json:"githubUserName" db:"github_user_name"`
	GoogleUserID         *string   `json:"googleUserId" db:"google_user_id"`
	IsJoinedGuild        bool      `json:"isJoinedGuild" db:"is_joined_guild"`
	IsJoinedOrganization bool      `json:"isJoinedOrganization" db:"is_joined_organization"`
	IsLinkedToCalendar   bool      `json:"isLinkedToCalendar" db:"is_linked_to_calendar"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time `json:"updatedAt" db:"updated_at"`
}

// UserPatch is a partial update to a User. Nil fields keep the stored
// value; non-nil fields overwrite it. The store merges a patch over the
// current row before writing (merge-on-read).
type UserPatch struct {
	Name                 *string
	Email                *string
	Image                *string
	DiscordUserID        *string
	GithubUserID         *int64
	GithubUserName       *string
	GoogleUserID         *string
	IsJoinedGuild        *bool
	IsJoinedOrganization *bool
	IsLinkedToCalendar   *bool
}

// Apply overlays the patch on u and returns the merged copy.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = p.Email
	}
	if p.Image != nil {
		u.Image = p.Image
	}
	if p.DiscordUserID != nil {
		u.DiscordUserID = p.DiscordUserID
	}
	if p.GithubUserID != nil {
		u.GithubUserID = p.GithubUserID
	}
	if p.GithubUserName != nil {
		u.GithubUserName = p.GithubUserName
	}
	if p.GoogleUserID != nil {
		u.GoogleUserID = p.GoogleUserID
	}
	if p.IsJoinedGuild != nil {
		u.IsJoinedGuild = *p.IsJoinedGuild
	}
	if p.IsJoinedOrganization != nil {
		u.IsJoinedOrganization = *p.IsJoinedOrganization
	}
	if p.IsLinkedToCalendar != nil {
		u.IsLinkedToCalendar = *p.IsLinkedToCalendar
	}
	return u
}
