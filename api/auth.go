package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wardbook/records/auth"
	"github.com/wardbook/records/users"
)

type RegisterResponse struct {
	Message string      `json:"message"`
	User    *users.User `json:"user"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

type CurrentUserResponse struct {
	User    *users.User `json:"user"`
	IsAdmin bool        `json:"isAdmin"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// (POST /api/auth/register)
func (h *Handler) Register(ec echo.Context) error {
	ctx := ec.Request().Context()
	request := auth.RegisterRequest{}
	if err := ec.Bind(&request); err != nil {
		return err
	}

	user, err := h.identity.Register(ctx, request)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

// (POST /api/auth/login)
func (h *Handler) Login(ec echo.Context) error {
	ctx := ec.Request().Context()
	request := auth.LoginRequest{}
	if err := ec.Bind(&request); err != nil {
		return err
	}

	session, err := h.identity.Login(ctx, request)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(ec, h.config, session, int(h.tokens.TTL().Seconds()))
	return ec.JSON(http.StatusOK, LoginResponse{
		Token: session.Token,
		User:  session.User,
	})
}

// (POST /api/auth/logout)
func (h *Handler) Logout(ec echo.Context) error {
	auth.ClearSessionCookie(ec, h.config)
	return ec.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// (GET /api/auth/user)
func (h *Handler) CurrentUser(ec echo.Context) error {
	ctx := ec.Request().Context()
	token := auth.TokenFromRequest(ec.Request(), h.config.SessionCookieName)

	user, err := h.identity.CurrentUser(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return auth.ErrUnauthenticated
	}

	isAdmin, err := h.authorizer.IsAdmin(ctx, user)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, CurrentUserResponse{
		User:    user,
		IsAdmin: isAdmin,
	})
}
