package repository

import (
	"context"
	"errors"
	"fmt"
	"maintrack-backend/apperror"
	"maintrack-backend/dal"
	"maintrack-backend/models"
	"maintrack-backend/utils"
	"maintrack-backend/utils/logger"
	"strings"
	"time"
)

type UserRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewUserRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *UserRepository) tableName() string {
	return r.config.TableName("users")
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	r.logger.Infof("Creating user: %s (%s)", user.Email, user.Role)

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if existing, err := r.GetUserByEmail(ctx, user.Email); err == nil && existing != nil {
		return nil, apperror.Validation("user with email %s already exists", user.Email)
	}

	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = utils.GenerateID("usr")
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.TeamIDs == nil {
		user.TeamIDs = []string{}
	}

	if err := r.db.PutItem(ctx, r.tableName(), user); err != nil {
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, err
	}

	r.logger.Infof("User created successfully: %s", user.ID)
	return user, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, errors.New("user ID is required")
	}

	user := models.User{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &user)
	if err != nil {
		r.logger.Errorf("Failed to get user %s: %v", id, err)
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	if user.ID == "" {
		return nil, apperror.NotFound("user", id)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	user := models.User{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		IndexName: "email-index",
		KeyName:   "email",
		KeyValue:  email,
		KeyType:   models.StringType,
	}, &user)
	if err != nil {
		r.logger.Errorf("Failed to get user by email: %v", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.ID == "" {
		return nil, apperror.NotFound("user", email)
	}
	return &user, nil
}

func (r *UserRepository) GetUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.QueryByIndex(ctx, r.tableName(), "role-index", "role", string(role), &users); err != nil {
		r.logger.Errorf("Failed to get users with role %s: %v", role, err)
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	r.logger.Infof("Updating user: %s", user.ID)

	existing, err := r.GetUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()

	if err := r.db.PutItem(ctx, r.tableName(), user); err != nil {
		r.logger.Errorf("Failed to update user: %v", err)
		return nil, err
	}
	return user, nil
}
