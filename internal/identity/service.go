// Package identity gates sign-in and merges provider identities into one
// user record. Discord membership is the root trust anchor: without a
// Discord id, no sign-in from any provider is allowed.
package identity

import (
	"context"
	"fmt"

	"github.com/markbates/goth"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"main/internal/database"
	"main/internal/metrics"
	"main/internal/model"
)

// Messenger delivers a direct message to a Discord user.
type Messenger interface {
	SendDirectMessage(ctx context.Context, userID, message string) error
}

// Inviter invites a GitHub user into the organization.
type Inviter interface {
	CreateOrganizationInvitation(ctx context.Context, inviteeID int64) (bool, error)
}

// Auditor delivers one audit event. Payloads handed to it must already be
// free of token material.
type Auditor interface {
	Send(ctx context.Context, event string, payload map[string]any, user *model.User) error
}

// SignInResult is the outcome of one sign-in attempt.
type SignInResult struct {
	Allowed bool
	Created bool
	User    *model.User
}

// Service orchestrates the sign-in callback: decide, merge, dispatch side
// effects, persist.
type Service struct {
	users     database.UserStore
	accounts  database.AccountStore
	mappers   map[string]ProfileMapper
	messenger Messenger
	inviter   Inviter
	auditor   Auditor
	logger    *zap.Logger
}

// NewService wires the orchestrator with one mapper per provider.
func NewService(users database.UserStore, accounts database.AccountStore, mappers []ProfileMapper, messenger Messenger, inviter Inviter, auditor Auditor, logger *zap.Logger) *Service {
	byProvider := make(map[string]ProfileMapper, len(mappers))
	for _, m := range mappers {
		byProvider[m.Provider()] = m
	}
	return &Service{
		users:     users,
		accounts:  accounts,
		mappers:   byProvider,
		messenger: messenger,
		inviter:   inviter,
		auditor:   auditor,
		logger:    logger,
	}
}

// SignIn runs the callback chain for a completed OAuth exchange.
// sessionUser is the already signed-in user from the session cookie, if
// any. When the (provider, account id) pair has never been seen, the
// session user becomes the merge target: that is how a second provider
// gets linked onto an established identity instead of being denied as a
// stranger. The welcome message and the profile write are issued
// concurrently and jointly awaited; the message is best-effort, the
// write is not.
func (s *Service) SignIn(ctx context.Context, profile goth.User, sessionUser *model.User) (*SignInResult, error) {
	mapper, ok := s.mappers[profile.Provider]
	if !ok {
		return nil, fmt.Errorf("identity: no mapper for provider %q", profile.Provider)
	}

	stored, err := s.users.FindUserByAccount(profile.Provider, profile.UserID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored = sessionUser
	}

	patch, err := mapper.Map(ctx, profile, stored)
	if err != nil {
		return nil, err
	}

	discordUserID := patch.DiscordUserID
	if discordUserID == nil && stored != nil {
		discordUserID = stored.DiscordUserID
	}
	if discordUserID == nil {
		metrics.RecordSignIn(profile.Provider, false)
		return &SignInResult{Allowed: false}, nil
	}

	welcome := fmt.Sprintf("Welcome to the community portal! ✨🙌🏻\nSigned in with `%s` ✅", profile.Provider)

	var (
		user    *model.User
		created bool
		dmErr   error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Best-effort: a failed DM never blocks the sign-in.
		dmErr = s.messenger.SendDirectMessage(gctx, *discordUserID, welcome)
		return nil
	})
	g.Go(func() error {
		var persistErr error
		if stored == nil {
			user, persistErr = s.users.CreateUser(newUser(profile, patch))
			created = true
		} else {
			user, persistErr = s.users.UpdateUser(stored.ID, patch)
		}
		return persistErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if dmErr != nil {
		s.logger.Warn("welcome message failed", zap.String("discord_user_id", *discordUserID), zap.Error(dmErr))
	}

	if created {
		s.audit(ctx, "createUser", map[string]any{"user": user}, user)
	} else {
		s.audit(ctx, "updateUser", map[string]any{"user": user}, user)
	}

	linked, err := s.accounts.LinkAccount(newAccount(profile, user.ID))
	if err != nil {
		return nil, err
	}
	s.audit(ctx, "linkAccount", map[string]any{"user": user, "account": linked.Redacted()}, user)

	s.inviteToOrganization(ctx, profile.Provider, patch)

	// Account material is redacted from the signIn event entirely.
	s.audit(ctx, "signIn", map[string]any{"user": user, "isNewUser": created}, user)

	metrics.RecordSignIn(profile.Provider, true)
	return &SignInResult{Allowed: true, Created: created, User: user}, nil
}

// inviteToOrganization invites a GitHub user who is not yet an
// organization member. Best-effort.
func (s *Service) inviteToOrganization(ctx context.Context, provider string, patch model.UserPatch) {
	if provider != "github" || patch.GithubUserID == nil {
		return
	}
	if patch.IsJoinedOrganization == nil || *patch.IsJoinedOrganization {
		return
	}

	ok, err := s.inviter.CreateOrganizationInvitation(ctx, *patch.GithubUserID)
	if err != nil {
		s.logger.Warn("organization invitation failed", zap.Int64("github_user_id", *patch.GithubUserID), zap.Error(err))
		return
	}
	if !ok {
		s.logger.Warn("organization invitation rejected", zap.Int64("github_user_id", *patch.GithubUserID))
	}
}

// audit is fire-and-forget: failures are logged and counted, never
// surfaced to the sign-in flow.
func (s *Service) audit(ctx context.Context, event string, payload map[string]any, user *model.User) {
	err := s.auditor.Send(ctx, event, payload, user)
	metrics.RecordAuditDelivery(err == nil)
	if err != nil {
		s.logger.Warn("audit delivery failed", zap.String("event", event), zap.Error(err))
	}
}

// newUser builds the first row for a fresh identity from the mapped patch.
func newUser(profile goth.User, patch model.UserPatch) *model.User {
	user := patch.Apply(model.User{Name: profile.Name})
	return &user
}

// newAccount carries the OAuth token material for the provider link.
// Token expiry is normalized to unix seconds.
func newAccount(profile goth.User, userID string) *model.Account {
	account := &model.Account{
		UserID:            userID,
		Provider:          profile.Provider,
		Type:              "oauth",
		ProviderAccountID: profile.UserID,
	}
	if profile.AccessToken != "" {
		account.AccessToken = ptr(profile.AccessToken)
	}
	if profile.RefreshToken != "" {
		account.RefreshToken = ptr(profile.RefreshToken)
	}
	if profile.IDToken != "" {
		account.IDToken = ptr(profile.IDToken)
	}
	if !profile.ExpiresAt.IsZero() {
		account.ExpiresAt = ptr(profile.ExpiresAt.Unix())
	}
	return account
}
