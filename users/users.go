package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wardbook/records/errors"
	"github.com/wardbook/records/store"
)

//go:generate mockgen --build_flags=--mod=mod -source=./users.go -destination=./test/mock_users.go -package test Service,Repository

const (
	CollectionName = "users"

	StatusAll      = "All"
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	// StatusWaiting is accepted by the admin endpoint as an alias for StatusPending
	StatusWaiting = "Waiting"
)

var (
	ErrNotFound        = errors.New(errors.NotFound, "User not found")
	ErrDuplicate       = errors.New(errors.Duplicate, "User already exists")
	ErrMissingUserId   = errors.New(errors.BadRequest, "User ID is required")
	ErrInvalidStatus   = errors.New(errors.BadRequest, "Invalid status value")
	ErrMissingUsername = errors.New(errors.BadRequest, "Username is required")
)

type Service interface {
	Get(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) (*ListResult, error)
	UpdateStatus(ctx context.Context, id string, status string) (*User, error)
	Delete(ctx context.Context, id string) error
}

type Repository interface {
	Get(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) (*ListResult, error)
	UpdateStatus(ctx context.Context, id string, status string) (*User, error)
	Delete(ctx context.Context, id string) error
}

type User struct {
	Id           *primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Username     string              `json:"username" bson:"username"`
	PasswordHash string              `json:"-" bson:"password,omitempty"`
	FullName     string              `json:"fullName" bson:"fullName"`
	Position     string              `json:"position" bson:"position"`
	Status       string              `json:"status" bson:"status"`
	CreatedTime  time.Time           `json:"createdAt" bson:"createdTime"`
	UpdatedTime  time.Time           `json:"updatedAt" bson:"updatedTime"`
}

func (u *User) IdString() string {
	if u == nil || u.Id == nil {
		return ""
	}
	return u.Id.Hex()
}

func (u *User) IsApproved() bool {
	return u != nil && u.Status == StatusApproved
}

type Filter struct {
	// Status of the users to return. Empty or StatusAll disables the filter.
	Status *string
}

type ListResult struct {
	Users      []*User        `json:"users"`
	Pagination store.PageInfo `json:"pagination"`
}

// NormalizeStatus maps the statuses accepted by the admin api to the persisted ones
func NormalizeStatus(status string) (string, error) {
	switch status {
	case StatusApproved, StatusRejected, StatusPending:
		return status, nil
	case StatusWaiting:
		return StatusPending, nil
	default:
		return "", ErrInvalidStatus
	}
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
