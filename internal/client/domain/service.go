package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateClientRequest struct {
	UserID snowflake.ID
	Name   string
	Phone  string
	Email  string
	Notes  string
}

type UpdateClientRequest struct {
	UserID snowflake.ID
	ID     snowflake.ID
	Name   *string
	Phone  *string
	Email  *string
	Notes  *string
}

type ListClientRequest struct {
	UserID snowflake.ID
	Name   string
}

type ListClientResponse struct {
	Clients []ClientWithSummary `json:"clients"`
}

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (Client, error)
	List(ctx context.Context, req ListClientRequest) (ListClientResponse, error)
	GetByID(ctx context.Context, userID, id snowflake.ID) (ClientWithSummary, error)
	Update(ctx context.Context, req UpdateClientRequest) (Client, error)
	Delete(ctx context.Context, userID, id snowflake.ID) error
}

var (
	ErrInvalidID        = errors.New("invalid_client_id")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPhone     = errors.New("invalid_phone")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrClientNotFound   = errors.New("client_not_found")
	ErrClientHasCharges = errors.New("client_has_charges")
)
