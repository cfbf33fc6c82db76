// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
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

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterResult is handed back to the client, who returns the token together
// with the emailed code to [Service.Activate].
type RegisterResult struct {
	Email           string
	ActivationToken string
}

// activationDraft is the pending account carried inside the activation token.
// Password holds a bcrypt hash, never the plaintext.
type activationDraft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// activationClaims is the payload of an activation token.
type activationClaims struct {
	User           activationDraft `json:"user"`
	ActivationCode string          `json:"activationCode"`
}

/*
Register starts an account activation without persisting anything.

Description: The pending account and a random 4-digit code travel inside a
short-lived signed token; the code alone is emailed. Nothing is written when
the email cannot be delivered.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *RegisterResult: Activation token for the client
  - error: ValidationError, EmailExists or UpstreamFailure
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	name := textnorm.Name(input.Name)
	email := textnorm.Email(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxBytes(FieldPassword, input.Password, MaxPasswordBytes)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.users.EmailExists(ctx, email)
	if err != nil {
		return nil, apperr.Remap(err, "auth_register_email_exists")
	}
	if exists {
		return nil, apperr.EmailExists()
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	code, err := sec.ActivationCode()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	token, _, err := service.codec.Issue(sec.TokenActivation, activationClaims{
		User:           activationDraft{Name: name, Email: email, Password: hashedPassword},
		ActivationCode: code,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	message, err := mail.RenderActivation(email, mail.ActivationData{
		Name:      name,
		Code:      code,
		ExpiresIn: humanizeTTL(service.codec.TTL(sec.TokenActivation)),
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.mailer.Send(ctx, message); err != nil {
		return nil, apperr.Upstream(msgMailFailed, err)
	}

	service.logger.InfoContext(ctx, "user_registration_pending", slog.String("email", email))

	return &RegisterResult{Email: email, ActivationToken: token}, nil
}

// ActivateInput pairs an activation token with the code the user received.
type ActivateInput struct {
	Token string
	Code  string
}

/*
Activate creates the account described by a valid activation token.

Description: The code comparison is constant-time. No session is created;
the user logs in afterwards. A token may be replayed until it expires, but a
second activation fails with EmailExists once the account exists.

Parameters:
  - ctx: context.Context
  - input: ActivateInput

Returns:
  - *User: Created account
  - error: InvalidToken, InvalidActivationCode, EmailExists or UpstreamFailure
*/
func (service *Service) Activate(ctx context.Context, input ActivateInput) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldActivationToken, input.Token).
		Required(FieldActivationCode, input.Code)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var claims activationClaims
	if err := service.codec.Verify(sec.TokenActivation, input.Token, &claims); err != nil {
		return nil, apperr.InvalidToken(msgInvalidActivation, err)
	}

	if subtle.ConstantTimeCompare([]byte(claims.ActivationCode), []byte(input.Code)) != 1 {
		return nil, apperr.InvalidActivationCode()
	}

	exists, err := service.users.EmailExists(ctx, claims.User.Email)
	if err != nil {
		return nil, apperr.Remap(err, "auth_activate_email_exists")
	}
	if exists {
		return nil, apperr.EmailExists()
	}

	user := &User{
		ID:           uuid.New(),
		Name:         claims.User.Name,
		Email:        claims.User.Email,
		PasswordHash: claims.User.Password,
		Role:         sec.RoleUser,
	}

	if err := service.users.Create(ctx, user); err != nil {
		if dberr.IsDuplicate(err) {
			return nil, apperr.EmailExists()
		}
		return nil, apperr.Remap(err, "auth_activate_create_user")
	}

	service.logger.InfoContext(ctx, "user_activated", slog.String("user_id", user.ID))
	return user, nil
}

// humanizeTTL renders a lifetime for the activation email ("5 minutes").
func humanizeTTL(ttl time.Duration) string {
	switch {
	case ttl >= time.Hour && ttl%time.Hour == 0:
		return plural(int(ttl/time.Hour), "hour")
	case ttl >= time.Minute && ttl%time.Minute == 0:
		return plural(int(ttl/time.Minute), "minute")
	default:
		return ttl.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
