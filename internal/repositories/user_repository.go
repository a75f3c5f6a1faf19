package repositories

import (
	"context"

	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserRepository defines the read operations this backend needs on users
type UserRepository interface {
	ExistenceStore
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserIDsByUsernames(ctx context.Context, usernames []string) ([]string, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// ValidID reports whether id is a UUID.
func (r *PostgresUserRepository) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !r.ValidID(id) {
		return nil, ErrInvalidID
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

func (r *PostgresUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if !r.ValidID(id) {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check user existence")
	}
	return count > 0, nil
}

// GetUserIDsByUsernames resolves lower-cased usernames to ids, matching
// case-insensitively. Unknown usernames are skipped.
func (r *PostgresUserRepository) GetUserIDsByUsernames(ctx context.Context, usernames []string) ([]string, error) {
	ids := []string{}
	if len(usernames) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) IN ?", usernames).
		Pluck("id", &ids).Error
	return ids, errors.Wrap(err, "resolve usernames")
}
