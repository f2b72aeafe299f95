package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(base *BaseRepository) repository.UserRepository {
	return &userRepository{BaseRepository: base}
}

const userColumns = `id, last_name, first_name, email, password_hash, role, avatar_url,
		club_id, federation_id, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, last_name, first_name, email, password_hash, role, avatar_url,
			club_id, federation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.GetDB().ExecContext(ctx, query,
		user.ID,
		user.LastName,
		user.FirstName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.AvatarURL,
		user.ClubID,
		user.FederationID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapError("user", err)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user model.User
	if err := r.GetDB().GetContext(ctx, &user, query, id); err != nil {
		return nil, mapError("user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var user model.User
	if err := r.GetDB().GetContext(ctx, &user, query, email); err != nil {
		return nil, mapError("user", err)
	}
	return &user, nil
}

// ListRoleNames returns the roles granted through the user_roles relation.
// The legacy users.role column is the fallback when this comes back empty.
func (r *userRepository) ListRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ur.granted_at
	`
	var names []string
	if err := r.GetDB().SelectContext(ctx, &names, query, userID); err != nil {
		return nil, mapError("user roles", err)
	}
	return names, nil
}
