// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/authkit/internal/platform/middleware"
	requestutil "github.com/taibuivan/authkit/internal/platform/request"
	"github.com/taibuivan/authkit/internal/platform/respond"
	"github.com/taibuivan/authkit/internal/platform/session"
	"github.com/taibuivan/authkit/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the identity service HTTP endpoints.
//
// # Scope
//
// This layer is strictly responsible for transport concerns (status codes,
// cookies, JSON). Every credential it hands out comes from [Service].
type Handler struct {
	service   *Service
	transport *session.Transport
	verifier  middleware.CredentialVerifier
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, transport *session.Transport, verifier middleware.CredentialVerifier) *Handler {
	return &Handler{service: service, transport: transport, verifier: verifier}
}

// Routes returns a [chi.Router] with every identity endpoint.
//
// Every route runs behind the lenient [middleware.Authenticate]; the
// protected group adds [middleware.RequireAuth] on top.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(handler.transport, handler.verifier))

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Get("/logout", handler.logout)
	router.Get("/login-status", handler.loginStatus)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password/{resetToken}", handler.resetPassword)
	router.Post("/verify-user/{verificationToken}", handler.verifyUser)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/user", handler.getAccount)
		r.Patch("/user", handler.updateAccount)
		r.Get("/user/{id}", handler.getPublicProfile)
		r.Patch("/change-password", handler.changePassword)
		r.Post("/verify-email", handler.verifyEmail)
	})

	return router
}

// # Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateAccountRequest struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Photo string `json:"photo"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// sessionResponse is the account flattened next to its credential.
type sessionResponse struct {
	*Account
	Token string `json:"token"`
}

// # Registration & Login

/*
register creates an account and logs it in.

POST /api/v1/register

Response:
  - 201: sessionResponse, credential cookie set
  - 400: VALIDATION_ERROR or DUPLICATE_EMAIL
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.transport.Set(writer, session.Token)
	respond.Created(writer, sessionResponse{Account: session.Account, Token: session.Token})
}

/*
login checks credentials and sets a fresh credential cookie.

POST /api/v1/login

Response:
  - 200: sessionResponse
  - 400: VALIDATION_ERROR or BAD_CREDENTIALS
  - 404: ACCOUNT_NOT_FOUND
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
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

	handler.transport.Set(writer, session.Token)
	respond.OK(writer, sessionResponse{Account: session.Account, Token: session.Token})
}

// logout clears the credential cookie. There is no server-side session to revoke.
func (handler *Handler) logout(writer http.ResponseWriter, _ *http.Request) {
	handler.transport.Clear(writer)
	respond.Message(writer, "User logged out")
}

// loginStatus answers true when a valid credential was presented.
func (handler *Handler) loginStatus(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, requestutil.IsAuthenticated(request))
}

// # Profile

func (handler *Handler) getAccount(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Account(request.Context(), claims.AccountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, account)
}

/*
getPublicProfile serves the identity lookup used by other services.

GET /api/v1/user/{id}

Response:
  - 200: PublicProfile
  - 400: INVALID_FORMAT when the id is not a UUID
  - 404: ACCOUNT_NOT_FOUND
*/
func (handler *Handler) getPublicProfile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.PublicProfile(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAccountRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.MaxLen(FieldName, input.Name, MaxNameLength).
		MaxLen(FieldBio, input.Bio, MaxBioLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.UpdateProfile(request.Context(), claims.AccountID, UpdateProfileInput{
		Name:  input.Name,
		Bio:   input.Bio,
		Photo: input.Photo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, account)
}

// # Passwords

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), claims.AccountID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "Password changed successfully")
}

/*
forgotPassword emails a reset link.

POST /api/v1/forgot-password

Response:
  - 200: {"message":"Email sent"}
  - 404: ACCOUNT_NOT_FOUND
  - 500: EMAIL_FAILED
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Email(FieldEmail, input.Email).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "Email sent")
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.MinLen(FieldPassword, input.Password, MinPasswordLength).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ResetPassword(request.Context(), requestutil.Param(request, "resetToken"), input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "Password reset successfully")
}

// # Email Verification

func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RequestVerification(request.Context(), claims.AccountID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "Email sent")
}

func (handler *Handler) verifyUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.VerifyAccount(request.Context(), requestutil.Param(request, "verificationToken")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "User verified")
}
