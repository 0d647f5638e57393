package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quorail/orgauth/internal/authz"
	"github.com/quorail/orgauth/internal/domain"
	"github.com/quorail/orgauth/internal/membership"
)

func TestSelfAccessAlwaysAllowed(t *testing.T) {
	ctx := context.Background()
	fix := newFixture()
	fix.addUser("u1")
	// No memberships at all: self-access must still win.
	auth := fix.authorizer()

	require.NoError(t, auth.CanViewUser(ctx, "u1", "u1"))
}

func TestCrossAccessRequiresSharedOrganisation(t *testing.T) {
	ctx := context.Background()
	fix := newFixture()
	fix.addUser("u1")
	fix.addUser("u2")
	fix.addUser("u3")
	fix.addOrg("o1")
	fix.addOrg("o2")
	fix.link("u1", "o1")
	fix.link("u2", "o1")
	fix.link("u3", "o2")
	auth := fix.authorizer()

	require.NoError(t, auth.CanViewUser(ctx, "u1", "u2"))
	require.ErrorIs(t, auth.CanViewUser(ctx, "u1", "u3"), domain.ErrNotAuthorized)
}

func TestMissingTargetCheckedBeforeSharing(t *testing.T) {
	ctx := context.Background()
	fix := newFixture()
	fix.addUser("u1")
	auth := fix.authorizer()

	// The requester shares no organisation with anyone, but a nonexistent
	// target must surface as not-found, not as a permission denial.
	require.ErrorIs(t, auth.CanViewUser(ctx, "u1", "ghost"), domain.ErrUserNotFound)
}

func TestOrganisationViewRequiresMembership(t *testing.T) {
	ctx := context.Background()
	fix := newFixture()
	fix.addUser("u1")
	fix.addUser("u2")
	fix.addOrg("o1")
	fix.link("u1", "o1")
	auth := fix.authorizer()

	require.NoError(t, auth.CanViewOrganisation(ctx, "u1", "o1"))
	require.ErrorIs(t, auth.CanViewOrganisation(ctx, "u2", "o1"), domain.ErrNotAuthorized)
	require.ErrorIs(t, auth.CanViewOrganisation(ctx, "u1", "ghost"), domain.ErrOrgNotFound)
}

type fixture struct {
	users *memUserRepo
	orgs  *memOrgRepo
	edges *memMembershipRepo
}

func newFixture() *fixture {
	return &fixture{
		users: &memUserRepo{users: map[string]domain.User{}},
		orgs:  &memOrgRepo{orgs: map[string]domain.Organisation{}},
		edges: &memMembershipRepo{edges: map[string]map[string]bool{}},
	}
}

func (f *fixture) addUser(id string) { f.users.users[id] = domain.User{ID: id} }

func (f *fixture) addOrg(id string) { f.orgs.orgs[id] = domain.Organisation{ID: id} }

func (f *fixture) link(user, org string) {
	if f.edges.edges[user] == nil {
		f.edges.edges[user] = map[string]bool{}
	}
	f.edges.edges[user][org] = true
}

func (f *fixture) authorizer() *authz.Authorizer {
	graph := membership.NewGraph(f.users, f.orgs, f.edges)
	return authz.NewAuthorizer(f.users, f.orgs, graph)
}

type memUserRepo struct {
	users map[string]domain.User
}

func (m *memUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, userID string) (domain.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

type memOrgRepo struct {
	orgs map[string]domain.Organisation
}

func (m *memOrgRepo) Create(ctx context.Context, org domain.Organisation) (domain.Organisation, error) {
	m.orgs[org.ID] = org
	return org, nil
}

func (m *memOrgRepo) GetByID(ctx context.Context, orgID string) (domain.Organisation, error) {
	org, ok := m.orgs[orgID]
	if !ok {
		return domain.Organisation{}, domain.ErrOrgNotFound
	}
	return org, nil
}

type memMembershipRepo struct {
	edges map[string]map[string]bool
}

func (m *memMembershipRepo) Add(ctx context.Context, userID, orgID string) error {
	if m.edges[userID] == nil {
		m.edges[userID] = map[string]bool{}
	}
	m.edges[userID][orgID] = true
	return nil
}

func (m *memMembershipRepo) Exists(ctx context.Context, userID, orgID string) (bool, error) {
	return m.edges[userID][orgID], nil
}

func (m *memMembershipRepo) OrganisationsOf(ctx context.Context, userID string) ([]domain.Organisation, error) {
	var orgs []domain.Organisation
	for orgID := range m.edges[userID] {
		orgs = append(orgs, domain.Organisation{ID: orgID})
	}
	return orgs, nil
}

func (m *memMembershipRepo) UsersOf(ctx context.Context, orgID string) ([]domain.User, error) {
	var users []domain.User
	for userID, orgSet := range m.edges {
		if orgSet[orgID] {
			users = append(users, domain.User{ID: userID})
		}
	}
	return users, nil
}
