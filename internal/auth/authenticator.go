package auth

import (
	"net/http"

	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
)

// Authenticator finishes the provider handshake on the OAuth callback
// request and yields the provider's view of the user.
type Authenticator interface {
	CompleteUserAuth(w http.ResponseWriter, r *http.Request) (goth.User, error)
}

// GothicAuthenticator completes the handshake through gothic, which
// expects the provider name in the request query and its state in the
// session it wrote at begin time.
type GothicAuthenticator struct{}

func NewGothicAuthenticator() *GothicAuthenticator {
	return &GothicAuthenticator{}
}

func (a *GothicAuthenticator) CompleteUserAuth(w http.ResponseWriter, r *http.Request) (goth.User, error) {
	return gothic.CompleteUserAuth(w, r)
}
