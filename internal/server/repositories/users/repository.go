package users

import (
	"context"

	"github.com/dmitrijs2005/admingate/internal/server/models"
)

// Repository is the user-record store consulted by the login flow.
// GetByEmail must return common.ErrorNotFound for an unknown email so the
// service layer can keep "no such user" indistinguishable from a wrong
// password in its result.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
