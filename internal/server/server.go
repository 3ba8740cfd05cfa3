package server

import (
	"database/sql"

	"github.com/antonlindstrom/pgstore"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"

	"main/internal/audit"
	"main/internal/auth"
	"main/internal/calendar"
	"main/internal/config"
	"main/internal/database"
	"main/internal/discord"
	"main/internal/github"
	"main/internal/handler"
	"main/internal/identity"
	"main/internal/metrics"
	"main/internal/middleware"
)

type Server struct {
	*gin.Engine
	db    *sql.DB
	store *pgstore.PGStore
}

func New(cfg *config.Config, db *sql.DB, logger *zap.Logger) (*Server, error) {
	r := gin.Default()

	store, err := auth.NewStore(cfg.DatabaseURL, []byte(cfg.SessionSecret))
	if err != nil {
		return nil, err
	}
	gothic.Store = store

	auth.RegisterProviders(cfg)

	users := database.NewUserStore(db)
	accounts := database.NewAccountStore(db)

	discordClient := discord.NewClient(cfg.DiscordBotToken, cfg.DiscordGuildID, cfg.DiscordGuildIDPrev)
	githubClient := github.NewClient(cfg.GitHubAccessToken, cfg.GitHubOrg)
	auditor := audit.NewSender(cfg.AuditLogWebhook)

	signin := identity.NewService(
		users,
		accounts,
		[]identity.ProfileMapper{
			identity.NewDiscordMapper(discordClient),
			identity.NewGitHubMapper(githubClient),
			identity.NewGoogleMapper(),
		},
		discordClient,
		githubClient,
		auditor,
		logger,
	)

	tokens := calendar.NewTokenManager(users, accounts, cfg.GoogleClientID, cfg.GoogleClientSecret, logger)
	syncer := calendar.NewSyncer(users, discordClient, calendar.NewClient(cfg.CalendarTimeZone), tokens, logger)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware())

	h := handler.New(users, store, cfg, auth.NewGothicAuthenticator(), signin, syncer, logger)

	r.GET("/", h.Home)
	r.GET("/auth/:provider", h.SignInWithProvider)
	r.GET("/auth/:provider/callback", h.CallbackHandler)
	r.GET("/metrics", metrics.Handler())

	authorized := r.Group("/")
	authorized.Use(middleware.Auth(store, users))
	{
		authorized.GET("/me", h.Me)
		authorized.GET("/logout", h.Logout)
		authorized.POST("/calendar/link", h.LinkCalendar)
		authorized.POST("/calendar/unlink", h.UnlinkCalendar)
	}

	return &Server{r, db, store}, nil
}
