// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/accounts/internal/platform/apperr"
	"github.com/taibuivan/accounts/internal/platform/dberr"
	"github.com/taibuivan/accounts/internal/platform/mail"
	"github.com/taibuivan/accounts/internal/platform/sec"
	"github.com/taibuivan/accounts/internal/platform/validate"
	"github.com/taibuivan/accounts/pkg/textnorm"
	"github.com/taibuivan/accounts/pkg/uuid"
)

// # Contracts & Types

// Service implements the session lifecycle and the activation flow.
//
// It holds no mutable state of its own; every call is independent and the
// session cache is last-write-wins.
type Service struct {
	users    UserRepository
	sessions *SessionStore
	codec    *sec.TokenCodec
	mailer   mail.Sender
	logger   *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	sessions *SessionStore,
	codec *sec.TokenCodec,
	mailer mail.Sender,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		codec:    codec,
		mailer:   mailer,
		logger:   logger,
	}
}

// Session is a freshly minted access/refresh pair for a user.
type Session struct {
	User             *User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// tokenSubject is the payload of access and refresh tokens.
type tokenSubject struct {
	ID string `json:"id"`
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues a session.

Description: Unknown email and wrong password fail identically, and an unknown
email still pays for one bcrypt comparison so that timing does not reveal
which accounts exist.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *Session: Tokens and the authenticated user
  - error: ValidationError, InvalidCredentials or UpstreamFailure
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email := textnorm.Email(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			sec.BurnPasswordCheck(input.Password)
			return nil, apperr.InvalidCredentials(msgInvalidCredentials)
		}
		return nil, apperr.Remap(err, "auth_login_find_user")
	}

	if !user.ComparePassword(input.Password) {
		return nil, apperr.InvalidCredentials(msgInvalidCredentials)
	}

	session, err := service.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

/*
Refresh rotates a session using a refresh token.

Description: The user is read from the session cache, not from the database.
A fresh pair is minted and the snapshot is written again, which restarts its
expiry. The presented refresh token is not revoked; it remains usable until
its own expiry.

Parameters:
  - ctx: context.Context
  - refreshToken: string

Returns:
  - *Session: New tokens
  - error: InvalidToken, SessionNotFound or UpstreamFailure
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperr.InvalidToken(msgInvalidRefresh, nil)
	}

	var subject tokenSubject
	if err := service.codec.Verify(sec.TokenRefresh, refreshToken, &subject); err != nil {
		return nil, apperr.InvalidToken(msgInvalidRefresh, err)
	}

	user, err := service.sessions.Load(ctx, subject.ID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, apperr.SessionNotFound()
		}
		return nil, apperr.Remap(err, "auth_refresh_load_session")
	}

	return service.issueSession(ctx, user)
}

/*
Logout evicts the session of userID.

Description: Idempotent; evicting a missing session succeeds. Tokens already
issued stay cryptographically valid until expiry but no longer resolve to a
session at the gate.
*/
func (service *Service) Logout(ctx context.Context, userID string) error {
	if err := service.sessions.Evict(ctx, userID); err != nil {
		return apperr.Remap(err, "auth_logout_evict")
	}

	service.logger.InfoContext(ctx, "user_logged_out", slog.String("user_id", userID))
	return nil
}

// SocialAuthInput carries a profile already verified by an external provider.
type SocialAuthInput struct {
	Email  string
	Name   string
	Avatar string
}

/*
SocialAuth logs in the account bound to the given email, creating it first
(without a password) when none exists.

Parameters:
  - ctx: context.Context
  - input: SocialAuthInput

Returns:
  - *Session: Tokens and the user
  - error: ValidationError or UpstreamFailure
*/
func (service *Service) SocialAuth(ctx context.Context, input SocialAuthInput) (*Session, error) {
	email := textnorm.Email(input.Email)
	name := textnorm.Name(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByEmail(ctx, email)
	if err != nil && !dberr.IsNotFound(err) {
		return nil, apperr.Remap(err, "auth_social_find_user")
	}

	if user == nil {
		user = &User{
			ID:       uuid.New(),
			Name:     name,
			Email:    email,
			Role:     sec.RoleUser,
			IsSocial: true,
		}
		if input.Avatar != "" {
			user.Avatar = &Avatar{URL: input.Avatar}
		}

		if err := service.users.Create(ctx, user); err != nil {
			if !dberr.IsDuplicate(err) {
				return nil, apperr.Remap(err, "auth_social_create_user")
			}

			// Lost a concurrent first login for the same email; use the winner.
			user, err = service.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, apperr.Remap(err, "auth_social_refind_user")
			}
		} else {
			service.logger.InfoContext(ctx, "user_created_social", slog.String("user_id", user.ID))
		}
	}

	return service.issueSession(ctx, user)
}

// # Internals

// issueSession mints an access/refresh pair and overwrites the cached snapshot.
func (service *Service) issueSession(ctx context.Context, user *User) (*Session, error) {
	subject := tokenSubject{ID: user.ID}

	accessToken, accessExpiresAt, err := service.codec.Issue(sec.TokenAccess, subject)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshToken, refreshExpiresAt, err := service.codec.Issue(sec.TokenRefresh, subject)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.sessions.Save(ctx, user); err != nil {
		return nil, apperr.Remap(err, "auth_session_save")
	}

	return &Session{
		User:             user,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}
