// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/accounts/internal/platform/middleware"
	requestutil "github.com/taibuivan/accounts/internal/platform/request"
	"github.com/taibuivan/accounts/internal/platform/respond"
	"github.com/taibuivan/accounts/internal/platform/sec"
	"github.com/taibuivan/accounts/pkg/pagination"
)

// Handler implements the HTTP layer for profile and admin endpoints.
//
// # Security
//
// Every endpoint requires a live session; the admin endpoints additionally
// require the admin role.
type Handler struct {
	service  *Service
	sessions middleware.SessionResolver
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, sessions middleware.SessionResolver) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes registers the account endpoints on router.
//
// # Endpoints
//   - GET    /me                   : Cached identity of the caller.
//   - PUT    /update-user-info     : Name and/or email.
//   - PUT    /update-user-password : Password change.
//   - PUT    /update-user-avatar   : Profile picture (data URL).
//   - GET    /admin/users          : Paginated account list (admin).
//   - PUT    /admin/users/role     : Role assignment (admin).
//   - DELETE /admin/users/{id}     : Account deletion (admin).
func (handler *Handler) Routes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(handler.sessions))

		// Profile
		r.Get("/me", handler.getMe)
		r.Put("/update-user-info", handler.updateInfo)
		r.Put("/update-user-password", handler.updatePassword)
		r.Put("/update-user-avatar", handler.updateAvatar)

		// Administration
		r.Route("/admin/users", func(admin chi.Router) {
			admin.Use(middleware.RequireRoles(sec.RoleAdmin))
			admin.Get("/", handler.listUsers)
			admin.Put("/role", handler.updateRole)
			admin.Delete("/{id}", handler.deleteUser)
		})
	})
}

// # Profile Endpoints

/*
GET /api/v1/me.

Response:
  - 200: User: Cached session snapshot
  - 404: NOT_FOUND: Session disappeared between the gate and the read
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetCurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

type updateInfoRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

/*
PUT /api/v1/update-user-info.

Request:
  - body: updateInfoRequest (either field may be omitted)

Response:
  - 200: User: The updated profile
  - 400: VALIDATION_ERROR, EMAIL_EXISTS
*/
func (handler *Handler) updateInfo(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateInfoRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateInfo(request.Context(), userID, UpdateInfoInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

/*
PUT /api/v1/update-user-password.

Response:
  - 200: User: The updated profile
  - 400: VALIDATION_ERROR, INVALID_CREDENTIALS
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdatePassword(request.Context(), userID, UpdatePasswordInput{
		OldPassword: input.OldPassword,
		NewPassword: input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

type updateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

/*
PUT /api/v1/update-user-avatar.

Request:
  - body: {"avatar": "data:image/png;base64,..."}

Response:
  - 200: User: The updated profile
  - 400: VALIDATION_ERROR
  - 500: UPSTREAM_FAILURE when object storage fails
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAvatarRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateAvatar(request.Context(), userID, input.Avatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Admin Endpoints

/*
GET /api/v1/admin/users?page=1&limit=20.

Response:
  - 200: []User with pagination meta
  - 403: FORBIDDEN
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	users, meta, err := handler.service.ListUsers(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

type updateRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

/*
PUT /api/v1/admin/users/role.

Response:
  - 200: User: The updated account
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
*/
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateRole(request.Context(), input.UserID, input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/admin/users/{id}.

Response:
  - 200: Confirmation message
  - 404: NOT_FOUND
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteUser(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "User deleted successfully")
}
