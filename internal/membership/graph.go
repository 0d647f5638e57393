// Package membership owns the many-to-many user-organisation relation. All
// shared-visibility questions are answered here; nothing outside this package
// traverses the relation directly.
package membership

import (
	"context"
	"fmt"

	"github.com/quorail/orgauth/internal/domain"
	"github.com/quorail/orgauth/internal/repository"
)

// Graph answers membership queries over the relation store.
type Graph struct {
	users       repository.UserRepository
	orgs        repository.OrganisationRepository
	memberships repository.MembershipRepository
}

// NewGraph wires the graph over its repositories.
func NewGraph(users repository.UserRepository, orgs repository.OrganisationRepository, memberships repository.MembershipRepository) *Graph {
	return &Graph{users: users, orgs: orgs, memberships: memberships}
}

// AddMembership links a user to an organisation. Adding an existing edge is a
// no-op success. Fails with domain.ErrUserNotFound or domain.ErrOrgNotFound
// when either side does not exist.
func (g *Graph) AddMembership(ctx context.Context, userID, orgID string) error {
	if _, err := g.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := g.orgs.GetByID(ctx, orgID); err != nil {
		return err
	}
	if err := g.memberships.Add(ctx, userID, orgID); err != nil {
		return fmt.Errorf("add membership: %w", err)
	}
	return nil
}

// OrganisationsOf returns every organisation the user belongs to. A user with
// no memberships yields an empty slice, not an error.
func (g *Graph) OrganisationsOf(ctx context.Context, userID string) ([]domain.Organisation, error) {
	return g.memberships.OrganisationsOf(ctx, userID)
}

// UsersOf returns every member of the organisation.
func (g *Graph) UsersOf(ctx context.Context, orgID string) ([]domain.User, error) {
	return g.memberships.UsersOf(ctx, orgID)
}

// IsMember reports whether the user currently belongs to the organisation.
func (g *Graph) IsMember(ctx context.Context, userID, orgID string) (bool, error) {
	return g.memberships.Exists(ctx, userID, orgID)
}

// ShareOrganisation reports whether two users belong to at least one common
// organisation.
func (g *Graph) ShareOrganisation(ctx context.Context, userA, userB string) (bool, error) {
	orgsA, err := g.memberships.OrganisationsOf(ctx, userA)
	if err != nil {
		return false, fmt.Errorf("organisations of %s: %w", userA, err)
	}
	orgsB, err := g.memberships.OrganisationsOf(ctx, userB)
	if err != nil {
		return false, fmt.Errorf("organisations of %s: %w", userB, err)
	}

	seen := make(map[string]struct{}, len(orgsA))
	for _, org := range orgsA {
		seen[org.ID] = struct{}{}
	}
	for _, org := range orgsB {
		if _, ok := seen[org.ID]; ok {
			return true, nil
		}
	}
	return false, nil
}
