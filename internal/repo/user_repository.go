package repo

import (
	"context"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UpdatePasswordHash(ctx context.Context, username, hash string) error
	Count(ctx context.Context) (int, error)
}
