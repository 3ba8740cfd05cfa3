package identity

import (
	"context"
	"fmt"
	"strconv"

	"github.com/markbates/goth"

	"main/internal/model"
)

// GuildChecker probes guild membership with a user access token.
type GuildChecker interface {
	IsJoinedGuild(ctx context.Context, accessToken string) (bool, error)
}

// OrganizationChecker probes organization membership by username.
type OrganizationChecker interface {
	IsJoinedOrganization(ctx context.Context, username string) (bool, error)
}

// ProfileMapper translates one provider's profile into a partial user
// update. One variant per provider; adding a provider means adding a
// mapper, not another branch.
type ProfileMapper interface {
	Provider() string
	Map(ctx context.Context, profile goth.User, stored *model.User) (model.UserPatch, error)
}

// DiscordMapper maps the root trust-anchor provider: display fields plus
// the guild-membership flag.
type DiscordMapper struct {
	guilds GuildChecker
}

// NewDiscordMapper wires the guild membership checker.
func NewDiscordMapper(guilds GuildChecker) *DiscordMapper {
	return &DiscordMapper{guilds: guilds}
}

func (m *DiscordMapper) Provider() string { return "discord" }

// Map carries name/email/image and the Discord id. The guild check runs
// only on a first-ever sign-in with a fresh access token: an existing
// stored identity was already checked, and a cookie-restored session has
// no token to check with.
func (m *DiscordMapper) Map(ctx context.Context, profile goth.User, stored *model.User) (model.UserPatch, error) {
	patch := model.UserPatch{
		Name:          ptr(profile.Name),
		Image:         ptr(profile.AvatarURL),
		DiscordUserID: ptr(profile.UserID),
	}
	if profile.Email != "" {
		patch.Email = ptr(profile.Email)
	}

	if stored == nil && profile.AccessToken != "" {
		joined, err := m.guilds.IsJoinedGuild(ctx, profile.AccessToken)
		if err != nil {
			return model.UserPatch{}, err
		}
		patch.IsJoinedGuild = &joined
	}
	return patch, nil
}

// GitHubMapper maps the GitHub identity and re-checks organization
// membership on every login.
type GitHubMapper struct {
	orgs OrganizationChecker
}

// NewGitHubMapper wires the organization membership checker.
func NewGitHubMapper(orgs OrganizationChecker) *GitHubMapper {
	return &GitHubMapper{orgs: orgs}
}

func (m *GitHubMapper) Provider() string { return "github" }

func (m *GitHubMapper) Map(ctx context.Context, profile goth.User, stored *model.User) (model.UserPatch, error) {
	githubID, err := strconv.ParseInt(profile.UserID, 10, 64)
	if err != nil {
		return model.UserPatch{}, fmt.Errorf("identity: parsing github user id %q: %w", profile.UserID, err)
	}

	patch := model.UserPatch{
		GithubUserID:   &githubID,
		GithubUserName: ptr(profile.NickName),
	}

	if profile.NickName != "" {
		joined, err := m.orgs.IsJoinedOrganization(ctx, profile.NickName)
		if err != nil {
			return model.UserPatch{}, err
		}
		patch.IsJoinedOrganization = &joined
	}
	return patch, nil
}

// GoogleMapper only records the Google external id; Google has no
// membership concept here.
type GoogleMapper struct{}

// NewGoogleMapper returns the Google variant.
func NewGoogleMapper() *GoogleMapper { return &GoogleMapper{} }

func (m *GoogleMapper) Provider() string { return "google" }

func (m *GoogleMapper) Map(_ context.Context, profile goth.User, _ *model.User) (model.UserPatch, error) {
	return model.UserPatch{GoogleUserID: ptr(profile.UserID)}, nil
}

func ptr[T any](v T) *T { return &v }
