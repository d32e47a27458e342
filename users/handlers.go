package users

// This file is the "Controller" layer for the user routes, analogous to a
// `UserController` class in Nest.js.

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/webutil"
)

// Handlers wraps the UserService to provide HTTP handlers.
type Handlers struct {
	service *UserService
	rs      *webutil.Responder
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *UserService, rs *webutil.Responder) *Handlers {
	return &Handlers{service: service, rs: rs}
}

// RegisterRoutes mounts the user routes on r (mounted at /api/v1/user).
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.HandleSignUp())
	r.Post("/signin", h.HandleSignIn())
}

// HandleSignUp godoc
// @Summary User sign-up
// @Description Registers a new user and returns the user (without password) and a token.
// @Tags User
// @Accept json
// @Produce json
// @Param body body users.SignUpRequest true "Sign-up details"
// @Success 201 {object} webutil.Envelope{data=users.SignUpResult}
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 409 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /user/signup [post]
func (h *Handlers) HandleSignUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.rs.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}

		result, err := h.service.SignUp(r.Context(), req)
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}

		h.rs.Message(w, http.StatusCreated, "User signed up successfully.", result)
	}
}

// HandleSignIn godoc
// @Summary User sign-in
// @Description Checks credentials and returns a bearer token at the top level of the body.
// @Tags User
// @Accept json
// @Produce json
// @Param body body users.SignInRequest true "Credentials"
// @Success 200 {object} webutil.TokenEnvelope
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /user/signin [post]
func (h *Handlers) HandleSignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.rs.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}

		token, err := h.service.SignIn(r.Context(), req)
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}

		h.rs.JSON(w, http.StatusOK, webutil.TokenEnvelope{
			Message: "User signed in successfully.",
			Token:   token,
		})
	}
}
