package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wardbook/records/auth"
	"github.com/wardbook/records/users"
)

type UpdateUserStatusRequest struct {
	UserId string `json:"userId" validate:"required"`
	Status string `json:"status" validate:"required"`
}

type DeleteUserRequest struct {
	UserId string `json:"userId" validate:"required"`
}

type UserResponse struct {
	User *users.User `json:"user"`
}

func (h *Handler) requireAdmin(ec echo.Context) error {
	ctx := ec.Request().Context()
	return h.authorizer.RequireAdmin(ctx, auth.GetUser(ctx))
}

// (GET /api/admin/users)
func (h *Handler) ListUsers(ec echo.Context) error {
	if err := h.requireAdmin(ec); err != nil {
		return err
	}

	ctx := ec.Request().Context()
	filter := users.Filter{Status: queryParam(ec, "status")}
	result, err := h.users.List(ctx, &filter, pagination(ec))
	if err != nil {
		return err
	}
	if result.Users == nil {
		result.Users = []*users.User{}
	}

	return ec.JSON(http.StatusOK, result)
}

// (PATCH /api/admin/users)
func (h *Handler) UpdateUserStatus(ec echo.Context) error {
	if err := h.requireAdmin(ec); err != nil {
		return err
	}

	ctx := ec.Request().Context()
	request := UpdateUserStatusRequest{}
	if err := ec.Bind(&request); err != nil {
		return err
	}
	if err := ec.Validate(request); err != nil {
		return err
	}

	user, err := h.users.UpdateStatus(ctx, request.UserId, request.Status)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, UserResponse{User: user})
}

// (DELETE /api/admin/users)
func (h *Handler) DeleteUser(ec echo.Context) error {
	if err := h.requireAdmin(ec); err != nil {
		return err
	}

	ctx := ec.Request().Context()
	request := DeleteUserRequest{}
	if err := ec.Bind(&request); err != nil {
		return err
	}
	if err := ec.Validate(request); err != nil {
		return err
	}

	if err := h.users.Delete(ctx, request.UserId); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}
