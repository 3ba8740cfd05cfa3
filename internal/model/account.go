package model

// Account is one (provider, providerAccountId) link to a User. It owns the
// OAuth token material for that provider relationship. Unique on
// (user_id, provider, provider_account_id).
type Account struct {
	ID                string  `db:"id"`
	UserID            string  `db:"user_id"`
	Provider          string  `db:"provider"`
	Type              string  `db:"type"`
	ProviderAccountID string  `db:"provider_account_id"`
	AccessToken       *string `db:"access_token"`
	RefreshToken      *string `db:"refresh_token"`
	ExpiresAt         *int64  `db:"expires_at"`
	IDToken           *string `db:"id_token"`
	Scope             *string `db:"scope"`
	SessionState      *string `db:"session_state"`
	TokenType         *string `db:"token_type"`
}

// Redacted returns a copy safe to ship to the audit sink: every token
// field is dropped, only the identifying columns survive.
func (a Account) Redacted() Account {
	return Account{
		ID:                a.ID,
		UserID:            a.UserID,
		Provider:          a.Provider,
		Type:              a.Type,
		ProviderAccountID: a.ProviderAccountID,
	}
}
