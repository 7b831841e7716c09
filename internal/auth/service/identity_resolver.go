package service

import (
	"context"
	"errors"

	"github.com/vmorozov/customer-hub/internal/common/jwtverify"
	userdomain "github.com/vmorozov/customer-hub/internal/user/domain"
	userrepo "github.com/vmorozov/customer-hub/internal/user/repository"
)

// IdentityResolver adapts the user repository to the auth gate's resolver
// contract.
type IdentityResolver struct {
	repo userrepo.Repository
}

func NewIdentityResolver(repo userrepo.Repository) *IdentityResolver {
	return &IdentityResolver{repo: repo}
}

func (r *IdentityResolver) ResolveUser(ctx context.Context, userID string) (jwtverify.Identity, error) {
	user, err := r.repo.FindByID(ctx, userdomain.ID(userID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return jwtverify.Identity{}, jwtverify.ErrUnknownUser
		}
		return jwtverify.Identity{}, err
	}

	return jwtverify.Identity{
		UserID:    string(user.ID),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}
