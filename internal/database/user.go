package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"main/internal/model"
)

const userColumns = `id, name, email, image, discord_user_id, github_user_id, github_user_name, google_user_id, is_joined_guild, is_joined_organization, is_linked_to_calendar, created_at, updated_at`

// UserStore is the persistence surface for User rows.
type UserStore interface {
	CreateUser(user *model.User) (*model.User, error)
	UpdateUser(id string, patch model.UserPatch) (*model.User, error)
	FindUserByID(id string) (*model.User, error)
	FindUserByAccount(provider, providerAccountID string) (*model.User, error)
	SetLinkedToCalendar(id string, linked bool) error
	ClearGoogleUserID(id string) error
}

type userStore struct {
	db *sql.DB
}

// NewUserStore returns a Postgres-backed UserStore.
func NewUserStore(db *sql.DB) UserStore {
	return &userStore{db: db}
}

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Image,
		&user.DiscordUserID, &user.GithubUserID, &user.GithubUserName, &user.GoogleUserID,
		&user.IsJoinedGuild, &user.IsJoinedOrganization, &user.IsLinkedToCalendar,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No user found is not an error
		}
		return nil, err
	}
	return user, nil
}

func (s *userStore) CreateUser(user *model.User) (*model.User, error) {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := s.db.Exec(`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.ID, user.Name, user.Email, user.Image,
		user.DiscordUserID, user.GithubUserID, user.GithubUserName, user.GoogleUserID,
		user.IsJoinedGuild, user.IsJoinedOrganization, user.IsLinkedToCalendar,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser is a merge-on-read write: it fetches the current row, overlays
// only the fields the patch carries, and writes every column back. Callers
// never have to supply the full record for a partial update.
func (s *userStore) UpdateUser(id string, patch model.UserPatch) (*model.User, error) {
	current, err := s.FindUserByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, sql.ErrNoRows
	}

	merged := patch.Apply(*current)
	merged.UpdatedAt = time.Now()

	_, err = s.db.Exec(`UPDATE users SET name = $2, email = $3, image = $4, discord_user_id = $5, github_user_id = $6, github_user_name = $7, google_user_id = $8, is_joined_guild = $9, is_joined_organization = $10, is_linked_to_calendar = $11, updated_at = $12 WHERE id = $1`,
		merged.ID, merged.Name, merged.Email, merged.Image,
		merged.DiscordUserID, merged.GithubUserID, merged.GithubUserName, merged.GoogleUserID,
		merged.IsJoinedGuild, merged.IsJoinedOrganization, merged.IsLinkedToCalendar,
		merged.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *userStore) FindUserByID(id string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) FindUserByAccount(provider, providerAccountID string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT u.id, u.name, u.email, u.image, u.discord_user_id, u.github_user_id, u.github_user_name, u.google_user_id, u.is_joined_guild, u.is_joined_organization, u.is_linked_to_calendar, u.created_at, u.updated_at
		FROM users u JOIN accounts a ON a.user_id = u.id
		WHERE a.provider = $1 AND a.provider_account_id = $2`,
		provider, providerAccountID)
	return scanUser(row)
}

func (s *userStore) SetLinkedToCalendar(id string, linked bool) error {
	_, err := s.db.Exec(`UPDATE users SET is_linked_to_calendar = $2, updated_at = $3 WHERE id = $1`, id, linked, time.Now())
	return err
}

func (s *userStore) ClearGoogleUserID(id string) error {
	_, err := s.db.Exec(`UPDATE users SET google_user_id = NULL, updated_at = $2 WHERE id = $1`, id, time.Now())
	return err
}
