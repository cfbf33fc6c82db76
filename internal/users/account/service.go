// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/accounts/internal/platform/apperr"
	"github.com/taibuivan/accounts/internal/platform/dberr"
	"github.com/taibuivan/accounts/internal/platform/sec"
	"github.com/taibuivan/accounts/internal/platform/validate"
	"github.com/taibuivan/accounts/internal/users/auth"
	"github.com/taibuivan/accounts/pkg/pagination"
	"github.com/taibuivan/accounts/pkg/pointer"
	"github.com/taibuivan/accounts/pkg/textnorm"
)

// # Service Layer

// Service orchestrates profile changes and account administration.
//
// The database is the source of truth; the session snapshot is re-written
// after every successful change.
type Service struct {
	users    auth.UserRepository
	sessions *auth.SessionStore
	avatars  AvatarStore
	logger   *slog.Logger
}

// NewService constructs a new [Service]. avatars may be nil, in which case
// avatar uploads fail with UPSTREAM_FAILURE.
func NewService(
	users auth.UserRepository,
	sessions *auth.SessionStore,
	avatars AvatarStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		avatars:  avatars,
		logger:   logger,
	}
}

// # Profile

/*
GetCurrentUser returns the cached session snapshot of userID.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *auth.User: Snapshot (no password hash)
  - error: NotFound when no session is cached, UpstreamFailure otherwise
*/
func (service *Service) GetCurrentUser(ctx context.Context, userID string) (*auth.User, error) {
	user, err := service.sessions.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return nil, apperr.NotFound("User")
		}
		return nil, apperr.Remap(err, "account_get_current_user")
	}
	return user, nil
}

// UpdateInfoInput is a partial profile change; nil fields are left untouched.
type UpdateInfoInput struct {
	Name  *string
	Email *string
}

/*
UpdateInfo changes the name and/or email of userID.

Description: A new email must not belong to another account. Keeping the
current email is not a conflict.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdateInfoInput

Returns:
  - *auth.User: Updated account
  - error: ValidationError, EmailExists, NotFound or UpstreamFailure
*/
func (service *Service) UpdateInfo(ctx context.Context, userID string, input UpdateInfoInput) (*auth.User, error) {
	name := textnorm.Name(pointer.Val(input.Name))
	email := textnorm.Email(pointer.Val(input.Email))

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, name).MaxLen(FieldName, name, auth.MaxNameLength)
	}
	if input.Email != nil {
		validator.Required(FieldEmail, email).Email(FieldEmail, email)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.findUser(ctx, userID, "account_update_info_find")
	if err != nil {
		return nil, err
	}

	if input.Email != nil && email != user.Email {
		exists, err := service.users.EmailExists(ctx, email)
		if err != nil {
			return nil, apperr.Remap(err, "account_update_info_email_exists")
		}
		if exists {
			return nil, apperr.EmailExists()
		}
		user.Email = email
	}

	if input.Name != nil {
		user.Name = name
	}

	if err := service.persist(ctx, user, "account_update_info"); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_info_updated", slog.String("user_id", userID))
	return user, nil
}

// UpdatePasswordInput carries the current and the desired password.
type UpdatePasswordInput struct {
	OldPassword string
	NewPassword string
}

/*
UpdatePassword replaces the password of userID after checking the old one.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdatePasswordInput

Returns:
  - *auth.User: Updated account
  - error: ValidationError (missing fields, social account), InvalidCredentials,
    NotFound or UpstreamFailure
*/
func (service *Service) UpdatePassword(ctx context.Context, userID string, input UpdatePasswordInput) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, auth.MinPasswordLength).
		MaxBytes(FieldNewPassword, input.NewPassword, auth.MaxPasswordBytes)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.findUser(ctx, userID, "account_update_password_find")
	if err != nil {
		return nil, err
	}

	// Accounts created through social login never had a password.
	if !user.HasPassword() {
		return nil, apperr.ValidationError("Password is not set")
	}

	if !user.ComparePassword(input.OldPassword) {
		return nil, apperr.InvalidCredentials("Old password is incorrect")
	}

	hashed, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user.PasswordHash = hashed

	if err := service.persist(ctx, user, "account_update_password"); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_password_updated", slog.String("user_id", userID))
	return user, nil
}

/*
UpdateAvatar replaces the profile picture of userID with a data URL image.

Description: The new object is uploaded and saved first. The previous object
is removed afterwards; a failed removal is logged and does not fail the change.

Parameters:
  - ctx: context.Context
  - userID: string
  - dataURL: string ("data:image/png;base64,...")

Returns:
  - *auth.User: Updated account
  - error: ValidationError, NotFound or UpstreamFailure
*/
func (service *Service) UpdateAvatar(ctx context.Context, userID, dataURL string) (*auth.User, error) {
	if dataURL == "" {
		return nil, validate.RequiredError(FieldAvatar, "This field is required")
	}

	image, err := decodeAvatar(dataURL)
	if err != nil {
		return nil, err
	}

	if service.avatars == nil {
		return nil, apperr.Upstream("Avatar storage is not available", errors.New("account: no avatar store configured"))
	}

	user, err := service.findUser(ctx, userID, "account_update_avatar_find")
	if err != nil {
		return nil, err
	}

	previous := user.Avatar

	key := avatarKey(user.ID, user.Name, image.ContentType)
	url, err := service.avatars.Put(ctx, key, image.ContentType, image.Data)
	if err != nil {
		return nil, apperr.Upstream("Failed to upload avatar", err)
	}
	user.Avatar = &auth.Avatar{PublicID: key, URL: url}

	if err := service.persist(ctx, user, "account_update_avatar"); err != nil {
		return nil, err
	}

	// The row points at the new object; a leftover one only costs storage.
	if previous != nil && previous.PublicID != "" && previous.PublicID != key {
		service.removeAvatar(ctx, userID, previous.PublicID)
	}

	service.logger.InfoContext(ctx, "user_avatar_updated",
		slog.String("user_id", userID),
		slog.Int("bytes", len(image.Data)),
	)
	return user, nil
}

// # Administration

/*
ListUsers returns one page of accounts, newest first.

Parameters:
  - ctx: context.Context
  - params: pagination.Params

Returns:
  - []*auth.User: Page of accounts
  - pagination.Meta: Page metadata
  - error: UpstreamFailure
*/
func (service *Service) ListUsers(ctx context.Context, params pagination.Params) ([]*auth.User, pagination.Meta, error) {
	users, err := service.users.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, apperr.Remap(err, "account_list_users")
	}

	total, err := service.users.Count(ctx)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Remap(err, "account_count_users")
	}

	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
UpdateRole assigns role to userID.

Description: A live session of the target is re-cached so that the new role
applies to its next request; no session is created otherwise.

Parameters:
  - ctx: context.Context
  - userID: string
  - role: string

Returns:
  - *auth.User: Updated account
  - error: ValidationError, NotFound or UpstreamFailure
*/
func (service *Service) UpdateRole(ctx context.Context, userID, role string) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUserID, userID).
		UUID(FieldUserID, userID).
		OneOf(FieldRole, role, string(sec.RoleUser), string(sec.RoleAdmin))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.findUser(ctx, userID, "account_update_role_find")
	if err != nil {
		return nil, err
	}

	user.Role = sec.UserRole(role)
	if err := service.save(ctx, user, "account_update_role"); err != nil {
		return nil, err
	}

	active, err := service.sessions.Exists(ctx, userID)
	if err != nil {
		return nil, apperr.Remap(err, "account_update_role_session")
	}
	if active {
		if err := service.sessions.Save(ctx, user); err != nil {
			return nil, apperr.Remap(err, "account_update_role_cache")
		}
	}

	service.logger.InfoContext(ctx, "user_role_updated",
		slog.String("user_id", userID),
		slog.String("role", role),
	)
	return user, nil
}

/*
DeleteUser removes the account, its session and its avatar object.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - error: ValidationError, NotFound or UpstreamFailure
*/
func (service *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := new(validate.Validator).UUID(FieldUserID, userID).Err(); err != nil {
		return err
	}

	user, err := service.findUser(ctx, userID, "account_delete_user_find")
	if err != nil {
		return err
	}

	if err := service.users.Delete(ctx, userID); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("User")
		}
		return apperr.Remap(err, "account_delete_user")
	}

	if err := service.sessions.Evict(ctx, userID); err != nil {
		return apperr.Remap(err, "account_delete_user_session")
	}

	// The row is gone; a leftover object only costs storage.
	if service.avatars != nil && user.Avatar != nil && user.Avatar.PublicID != "" {
		service.removeAvatar(ctx, userID, user.Avatar.PublicID)
	}

	service.logger.WarnContext(ctx, "user_deleted", slog.String("user_id", userID))
	return nil
}

// # Internals

func (service *Service) findUser(ctx context.Context, userID, op string) (*auth.User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, apperr.Remap(err, op)
	}
	return user, nil
}

// removeAvatar deletes key from object storage, logging instead of failing.
func (service *Service) removeAvatar(ctx context.Context, userID, key string) {
	if err := service.avatars.Remove(ctx, key); err != nil {
		service.logger.WarnContext(ctx, "user_avatar_orphaned",
			slog.String("user_id", userID),
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// save writes user to the database, mapping storage errors.
func (service *Service) save(ctx context.Context, user *auth.User, op string) error {
	if err := service.users.Save(ctx, user); err != nil {
		switch {
		case dberr.IsNotFound(err):
			return apperr.NotFound("User")
		case dberr.IsDuplicate(err):
			return apperr.EmailExists()
		default:
			return apperr.Remap(err, op)
		}
	}
	return nil
}

// persist saves user and overwrites the caller's session snapshot.
func (service *Service) persist(ctx context.Context, user *auth.User, op string) error {
	if err := service.save(ctx, user, op); err != nil {
		return err
	}
	if err := service.sessions.Save(ctx, user); err != nil {
		return apperr.Remap(err, op+"_cache")
	}
	return nil
}
