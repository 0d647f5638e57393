// Package authz is the decision engine: it composes identity and the
// membership graph to decide whether a requester may act on a target user or
// organisation. The resolved requester id is always passed explicitly; no
// decision reads ambient request state.
package authz

import (
	"context"

	"github.com/quorail/orgauth/internal/domain"
	"github.com/quorail/orgauth/internal/membership"
	"github.com/quorail/orgauth/internal/repository"
)

// Authorizer evaluates the two decision classes: self-scope checks on user
// records and organisation-scope checks.
type Authorizer struct {
	users repository.UserRepository
	orgs  repository.OrganisationRepository
	graph *membership.Graph
}

// NewAuthorizer wires the decision engine.
func NewAuthorizer(users repository.UserRepository, orgs repository.OrganisationRepository, graph *membership.Graph) *Authorizer {
	return &Authorizer{users: users, orgs: orgs, graph: graph}
}

// CanViewUser decides whether the requester may read the target user record.
// Self-access always wins; otherwise the target must exist (checked before
// the sharing test) and the two users must share at least one organisation.
func (a *Authorizer) CanViewUser(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return nil
	}

	if _, err := a.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	shared, err := a.graph.ShareOrganisation(ctx, requesterID, targetID)
	if err != nil {
		return err
	}
	if !shared {
		return domain.ErrNotAuthorized
	}
	return nil
}

// CanViewOrganisation decides whether the requester may read the organisation
// record. The organisation must exist and the requester must be a current
// member.
func (a *Authorizer) CanViewOrganisation(ctx context.Context, requesterID, orgID string) error {
	if _, err := a.orgs.GetByID(ctx, orgID); err != nil {
		return err
	}

	member, err := a.graph.IsMember(ctx, requesterID, orgID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotAuthorized
	}
	return nil
}
