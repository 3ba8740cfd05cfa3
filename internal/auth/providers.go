package auth

import (
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"

	"main/internal/config"
)

// RegisterProviders wires the three OAuth providers into goth. The Google
// provider asks for offline access so the calendar sync can refresh its
// token long after the sign-in.
func RegisterProviders(cfg *config.Config) {
	dp := discord.New(
		cfg.DiscordClientID,
		cfg.DiscordClientSecret,
		cfg.CallbackURL+"/auth/discord/callback",
		discord.ScopeIdentify,
		discord.ScopeGuilds,
	)

	gh := github.New(
		cfg.GitHubClientID,
		cfg.GitHubClientSecret,
		cfg.CallbackURL+"/auth/github/callback",
		"read:user",
	)

	gp := google.New(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.CallbackURL+"/auth/google/callback",
		"openid",
		"https://www.googleapis.com/auth/calendar",
	)
	gp.SetPrompt("consent")
	gp.SetAccessType("offline")

	goth.UseProviders(dp, gh, gp)
}
