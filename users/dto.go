package users

// This file defines the request/response bodies of the user routes.
// `validate` tags are checked by the validation package; `example` tags feed the
// Swagger documentation.

import "github.com/user/taskmanager-go/auth"

// SignUpRequest represents the registration request payload.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=3" example:"Jane"`
	Email    string `json:"email" validate:"required,email" example:"jane@example.com"`
	Password string `json:"password" validate:"required,min=8,strongpassword" example:"Passw0rd!"`
}

// SignInRequest represents the login request payload.
type SignInRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"Passw0rd!"`
}

// SignUpResult is the `data` of a successful sign-up: the created user (never with
// its password) and a token so the client is logged in right away.
type SignUpResult struct {
	User  auth.User `json:"user"`
	Token string    `json:"token"`
}
