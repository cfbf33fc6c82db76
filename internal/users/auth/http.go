// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/accounts/internal/platform/constants"
	"github.com/taibuivan/accounts/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/accounts/internal/platform/request"
	"github.com/taibuivan/accounts/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Registration, activation, login, refresh, logout and social login. Tokens
// travel in HttpOnly cookies; the access token is also returned in the body
// of login and refresh for non-browser clients.
type Handler struct {
	service       *Service
	gate          *Gate
	secureCookies bool
}

// NewHandler constructs a new [Handler]. secureCookies marks the token
// cookies Secure (production).
func NewHandler(service *Service, gate *Gate, secureCookies bool) *Handler {
	return &Handler{service: service, gate: gate, secureCookies: secureCookies}
}

// Routes registers the authentication endpoints on router.
//
// # Endpoints
//   - POST /registration  : Emails an activation code, returns the activation token.
//   - POST /activate-user : Creates the account.
//   - POST /login         : Sets the token cookies.
//   - GET  /refresh       : Rotates the token cookies.
//   - POST /social-auth   : Find-or-create by email, then login.
//   - GET  /logout        : Evicts the session (live session required); always expires the cookies.
func (handler *Handler) Routes(router chi.Router) {

	// Public endpoints
	router.Post("/registration", handler.register)
	router.Post("/activate-user", handler.activate)
	router.Post("/login", handler.login)
	router.Get("/refresh", handler.refresh)
	router.Post("/social-auth", handler.socialAuth)

	// Resolves its own session so that a rejected call still expires the cookies.
	router.Get("/logout", handler.logout)
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type activateRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialAuthRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// # Response Payloads

type registerResponse struct {
	ActivationToken string `json:"activationToken"`
}

type sessionResponse struct {
	User        *User  `json:"user,omitempty"`
	AccessToken string `json:"accessToken"`
}

/*
Register starts the activation flow.

POST /api/v1/registration

Request:
  - Body: registerRequest (Name, Email, Password)

Response:
  - 201: activationToken plus a message naming the email
  - 400: VALIDATION_ERROR, EMAIL_EXISTS
  - 500: UPSTREAM_FAILURE when the email cannot be sent
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusCreated, respond.SuccessEnvelope{
		Success: true,
		Message: "Please check your email: " + result.Email + " to activate your account",
		Data:    registerResponse{ActivationToken: result.ActivationToken},
	})
}

/*
Activate creates the account from an activation token and code.

POST /api/v1/activate-user

Response:
  - 201: Created user
  - 400: INVALID_TOKEN, INVALID_ACTIVATION_CODE, EMAIL_EXISTS
*/
func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	var input activateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Activate(request.Context(), ActivateInput{
		Token: input.ActivationToken,
		Code:  input.ActivationCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/login

Response:
  - 200: User and access token; both token cookies set
  - 400: VALIDATION_ERROR, INVALID_CREDENTIALS
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setTokenCookies(writer, session)
	respond.OK(writer, sessionResponse{User: session.User, AccessToken: session.AccessToken})
}

/*
Refresh rotates the token pair using the refresh token cookie.

GET /api/v1/refresh

Response:
  - 200: New access token; both token cookies replaced
  - 400: INVALID_TOKEN
  - 404: SESSION_NOT_FOUND
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken := requestutil.Cookie(request, constants.RefreshTokenCookieName)

	session, err := handler.service.Refresh(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setTokenCookies(writer, session)
	respond.OK(writer, sessionResponse{AccessToken: session.AccessToken})
}

/*
SocialAuth logs in (creating if needed) an externally verified account.

POST /api/v1/social-auth

Response:
  - 200: User and access token; both token cookies set
*/
func (handler *Handler) socialAuth(writer http.ResponseWriter, request *http.Request) {
	var input socialAuthRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.SocialAuth(request.Context(), SocialAuthInput{
		Email:  input.Email,
		Name:   input.Name,
		Avatar: input.Avatar,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setTokenCookies(writer, session)
	respond.OK(writer, sessionResponse{User: session.User, AccessToken: session.AccessToken})
}

/*
Logout terminates the current user session.

GET /api/v1/logout

Response:
  - 200: Session evicted
  - 400: INVALID_TOKEN
  - 401: UNAUTHENTICATED, SESSION_EXPIRED

Both cookies are cleared on every response.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.clearTokenCookies(writer)

	user, err := handler.gate.Authenticate(request.Context(), requestutil.Cookie(request, constants.AccessTokenCookieName))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if annotations := ctxutil.GetAnnotations(request.Context()); annotations != nil {
		annotations.UserID = user.ID
	}

	if err := handler.service.Logout(request.Context(), user.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "Logged out successfully")
}

// # Cookies

func (handler *Handler) setTokenCookies(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, handler.tokenCookie(constants.AccessTokenCookieName, session.AccessToken, session.AccessExpiresAt))
	http.SetCookie(writer, handler.tokenCookie(constants.RefreshTokenCookieName, session.RefreshToken, session.RefreshExpiresAt))
}

func (handler *Handler) clearTokenCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := handler.tokenCookie(name, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		http.SetCookie(writer, cookie)
	}
}

func (handler *Handler) tokenCookie(name, value string, expiresAt time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.TokenCookiePath,
		Expires:  expiresAt,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge := int(time.Until(expiresAt).Seconds()); maxAge > 0 {
		cookie.MaxAge = maxAge
	}
	return cookie
}
