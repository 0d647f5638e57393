package repository

import (
	"context"

	"github.com/quorail/orgauth/internal/domain"
)

// UserRepository exposes persistence for users. Create surfaces
// domain.ErrDuplicateIdentity on an email uniqueness conflict; lookups surface
// domain.ErrUserNotFound for unknown ids or emails.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// OrganisationRepository exposes persistence for organisations.
type OrganisationRepository interface {
	Create(ctx context.Context, org domain.Organisation) (domain.Organisation, error)
	GetByID(ctx context.Context, orgID string) (domain.Organisation, error)
}

// MembershipRepository stores the many-to-many user-organisation relation.
// Add is idempotent: adding an existing edge is a no-op success.
type MembershipRepository interface {
	Add(ctx context.Context, userID, orgID string) error
	Exists(ctx context.Context, userID, orgID string) (bool, error)
	OrganisationsOf(ctx context.Context, userID string) ([]domain.Organisation, error)
	UsersOf(ctx context.Context, orgID string) ([]domain.User, error)
}

// Registrar groups the multi-record writes that must be atomic: either every
// record of the unit exists afterwards or none do.
type Registrar interface {
	// RegisterUser creates the user, their default organisation, and the
	// membership linking them as one unit.
	RegisterUser(ctx context.Context, user domain.User, org domain.Organisation) error
	// CreateOrganisationWithOwner creates an organisation together with its
	// first membership, so no organisation ever exists with zero members.
	CreateOrganisationWithOwner(ctx context.Context, org domain.Organisation, ownerID string) error
}
