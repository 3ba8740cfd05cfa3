package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }
func int64p(n int64) *int64 { return &n }

func TestUserPatch_Apply(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	stored := User{
		ID:                   "user-123",
		Name:                 "Old Name",
		Email:                strp("old@example.com"),
		Image:                strp("http://example.com/old.png"),
		DiscordUserID:        strp("111111111111111111"),
		GithubUserID:         int64p(42),
		GithubUserName:       strp("octocat"),
		IsJoinedGuild:        true,
		IsJoinedOrganization: true,
		CreatedAt:            created,
	}

	t.Run("present fields overwrite, absent fields keep stored values", func(t *testing.T) {
		patch := UserPatch{
			Name:  strp("New Name"),
			Image: strp("http://example.com/new.png"),
		}

		merged := patch.Apply(stored)

		assert.Equal(t, "New Name", merged.Name)
		assert.Equal(t, "http://example.com/new.png", *merged.Image)

		// Everything the patch did not carry survives untouched.
		assert.Equal(t, "user-123", merged.ID)
		assert.Equal(t, "old@example.com", *merged.Email)
		assert.Equal(t, "111111111111111111", *merged.DiscordUserID)
		assert.Equal(t, int64(42), *merged.GithubUserID)
		assert.Equal(t, "octocat", *merged.GithubUserName)
		assert.True(t, merged.IsJoinedGuild)
		assert.True(t, merged.IsJoinedOrganization)
		assert.Equal(t, created, merged.CreatedAt)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		merged := UserPatch{}.Apply(stored)
		assert.Equal(t, stored, merged)
	})

	t.Run("flags can be lowered explicitly", func(t *testing.T) {
		merged := UserPatch{IsJoinedOrganization: boolp(false)}.Apply(stored)
		assert.False(t, merged.IsJoinedOrganization)
		assert.True(t, merged.IsJoinedGuild)
	})

	t.Run("new provider identity links without clobbering others", func(t *testing.T) {
		merged := UserPatch{GoogleUserID: strp("google-999")}.Apply(stored)
		assert.Equal(t, "google-999", *merged.GoogleUserID)
		assert.Equal(t, "111111111111111111", *merged.DiscordUserID)
		assert.Equal(t, int64(42), *merged.GithubUserID)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		_ = UserPatch{Name: strp("Mutant")}.Apply(stored)
		assert.Equal(t, "Old Name", stored.Name)
	})
}

func TestAccount_Redacted(t *testing.T) {
	account := Account{
		ID:                "acc-1",
		UserID:            "user-123",
		Provider:          "google",
		Type:              "oauth",
		ProviderAccountID: "google-999",
		AccessToken:       strp("secret-access"),
		RefreshToken:      strp("secret-refresh"),
		ExpiresAt:         int64p(1735689600),
		IDToken:           strp("secret-id-token"),
	}

	redacted := account.Redacted()

	assert.Equal(t, "acc-1", redacted.ID)
	assert.Equal(t, "user-123", redacted.UserID)
	assert.Equal(t, "google", redacted.Provider)
	assert.Equal(t, "google-999", redacted.ProviderAccountID)
	assert.Nil(t, redacted.AccessToken)
	assert.Nil(t, redacted.RefreshToken)
	assert.Nil(t, redacted.ExpiresAt)
	assert.Nil(t, redacted.IDToken)
}
