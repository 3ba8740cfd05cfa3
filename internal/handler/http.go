package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"

	"main/internal/auth"
	"main/internal/config"
	"main/internal/database"
	"main/internal/identity"
	"main/internal/middleware"
	"main/internal/model"
)

// SignInService runs the identity-linking callback chain.
type SignInService interface {
	SignIn(ctx context.Context, profile goth.User, sessionUser *model.User) (*identity.SignInResult, error)
}

// CalendarSyncer links and unlinks the user's calendar.
type CalendarSyncer interface {
	LinkCalendar(ctx context.Context, user *model.User) error
	UnlinkCalendar(ctx context.Context, user *model.User) error
}

type Handler struct {
	users  database.UserStore
	store  sessions.Store
	cfg    *config.Config
	auth   auth.Authenticator
	signin SignInService
	syncer CalendarSyncer
	logger *zap.Logger
}

func New(users database.UserStore, store sessions.Store, cfg *config.Config, authenticator auth.Authenticator, signin SignInService, syncer CalendarSyncer, logger *zap.Logger) *Handler {
	return &Handler{users, store, cfg, authenticator, signin, syncer, logger}
}

func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, struct{ Message string }{
		Message: "community portal backend",
	})
}

func (h *Handler) SignInWithProvider(c *gin.Context) {
	provider := c.Param("provider")
	q := c.Request.URL.Query()
	q.Add("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func (h *Handler) CallbackHandler(c *gin.Context) {
	provider := c.Param("provider")
	q := c.Request.URL.Query()
	q.Add("provider", provider)
	q.Del("scope")
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := h.auth.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	session, err := auth.GetSession(h.store, c.Request)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// An existing session means this callback is linking another provider
	// to the signed-in user rather than starting a fresh identity.
	var sessionUser *model.User
	if userID, ok := session.Values["user_id"].(string); ok && userID != "" {
		sessionUser, err = h.users.FindUserByID(userID)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
	}

	result, err := h.signin.SignIn(c.Request.Context(), gothUser, sessionUser)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	if !result.Allowed {
		h.logger.Info("sign-in denied", zap.String("provider", provider))
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	session.Values["user_id"] = result.User.ID
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendURL)
}

func (h *Handler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	session, err := auth.GetSession(h.store, c.Request)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendURL)
}

func (h *Handler) LinkCalendar(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := h.syncer.LinkCalendar(c.Request.Context(), user); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendURL)
}

func (h *Handler) UnlinkCalendar(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := h.syncer.UnlinkCalendar(c.Request.Context(), user); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendURL)
}

func currentUser(c *gin.Context) *model.User {
	v, ok := c.Get(middleware.UserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}
