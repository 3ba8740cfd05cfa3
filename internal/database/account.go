package database

import (
	"database/sql"

	"github.com/google/uuid"

	"main/internal/model"
)

const accountColumns = `id, user_id, provider, type, provider_account_id, access_token, refresh_token, expires_at, id_token, scope, session_state, token_type`

// AccountStore is the persistence surface for provider Account rows.
type AccountStore interface {
	// LinkAccount is an idempotent upsert keyed on
	// (user_id, provider, provider_account_id): a second link for the same
	// pair updates the token columns instead of inserting a duplicate.
	LinkAccount(account *model.Account) (*model.Account, error)
	FindGoogleAccount(userID string) (*model.Account, error)
	UpdateGoogleToken(userID, accessToken string, expiresAt int64) error
	DeleteGoogleAccount(userID string) error
}

type accountStore struct {
	db *sql.DB
}

// NewAccountStore returns a Postgres-backed AccountStore.
func NewAccountStore(db *sql.DB) AccountStore {
	return &accountStore{db: db}
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	account := &model.Account{}
	err := row.Scan(
		&account.ID, &account.UserID, &account.Provider, &account.Type, &account.ProviderAccountID,
		&account.AccessToken, &account.RefreshToken, &account.ExpiresAt,
		&account.IDToken, &account.Scope, &account.SessionState, &account.TokenType,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (s *accountStore) LinkAccount(account *model.Account) (*model.Account, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1 AND provider = $2 AND provider_account_id = $3)`,
		account.UserID, account.Provider, account.ProviderAccountID).Scan(&exists)
	if err != nil {
		return nil, err
	}

	var row *sql.Row
	if exists {
		row = s.db.QueryRow(`UPDATE accounts SET type = $4, access_token = $5, refresh_token = $6, expires_at = $7, id_token = $8, scope = $9, session_state = $10, token_type = $11
			WHERE user_id = $1 AND provider = $2 AND provider_account_id = $3
			RETURNING `+accountColumns,
			account.UserID, account.Provider, account.ProviderAccountID, account.Type,
			account.AccessToken, account.RefreshToken, account.ExpiresAt,
			account.IDToken, account.Scope, account.SessionState, account.TokenType)
	} else {
		account.ID = uuid.New().String()
		row = s.db.QueryRow(`INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+accountColumns,
			account.ID, account.UserID, account.Provider, account.Type, account.ProviderAccountID,
			account.AccessToken, account.RefreshToken, account.ExpiresAt,
			account.IDToken, account.Scope, account.SessionState, account.TokenType)
	}

	return scanAccount(row)
}

func (s *accountStore) FindGoogleAccount(userID string) (*model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND provider = 'google'`, userID)
	return scanAccount(row)
}

func (s *accountStore) UpdateGoogleToken(userID, accessToken string, expiresAt int64) error {
	_, err := s.db.Exec(`UPDATE accounts SET access_token = $2, expires_at = $3 WHERE user_id = $1 AND provider = 'google'`,
		userID, accessToken, expiresAt)
	return err
}

func (s *accountStore) DeleteGoogleAccount(userID string) error {
	_, err := s.db.Exec(`DELETE FROM accounts WHERE user_id = $1 AND provider = 'google'`, userID)
	return err
}
