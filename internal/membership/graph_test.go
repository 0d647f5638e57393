package membership_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quorail/orgauth/internal/domain"
	"github.com/quorail/orgauth/internal/membership"
)

func TestAddMembershipRequiresBothSides(t *testing.T) {
	ctx := context.Background()
	users, orgs, edges := newStores()
	users.users["u1"] = domain.User{ID: "u1", FirstName: "John"}
	orgs.orgs["o1"] = domain.Organisation{ID: "o1", Name: "John's Organisation"}
	graph := membership.NewGraph(users, orgs, edges)

	require.ErrorIs(t, graph.AddMembership(ctx, "missing", "o1"), domain.ErrUserNotFound)
	require.ErrorIs(t, graph.AddMembership(ctx, "u1", "missing"), domain.ErrOrgNotFound)
	require.NoError(t, graph.AddMembership(ctx, "u1", "o1"))
}

func TestAddMembershipIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users, orgs, edges := newStores()
	users.users["u1"] = domain.User{ID: "u1"}
	orgs.orgs["o1"] = domain.Organisation{ID: "o1"}
	graph := membership.NewGraph(users, orgs, edges)

	require.NoError(t, graph.AddMembership(ctx, "u1", "o1"))
	require.NoError(t, graph.AddMembership(ctx, "u1", "o1"))

	members, err := graph.UsersOf(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestShareOrganisation(t *testing.T) {
	ctx := context.Background()
	users, orgs, edges := newStores()
	for _, id := range []string{"a", "b", "c"} {
		users.users[id] = domain.User{ID: id}
	}
	orgs.orgs["o1"] = domain.Organisation{ID: "o1"}
	orgs.orgs["o2"] = domain.Organisation{ID: "o2"}
	graph := membership.NewGraph(users, orgs, edges)

	require.NoError(t, graph.AddMembership(ctx, "a", "o1"))
	require.NoError(t, graph.AddMembership(ctx, "b", "o1"))
	require.NoError(t, graph.AddMembership(ctx, "c", "o2"))

	shared, err := graph.ShareOrganisation(ctx, "a", "b")
	require.NoError(t, err)
	require.True(t, shared)

	shared, err = graph.ShareOrganisation(ctx, "a", "c")
	require.NoError(t, err)
	require.False(t, shared)
}

func TestOrganisationsOfWithoutMemberships(t *testing.T) {
	ctx := context.Background()
	users, orgs, edges := newStores()
	users.users["u1"] = domain.User{ID: "u1"}
	graph := membership.NewGraph(users, orgs, edges)

	got, err := graph.OrganisationsOf(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func newStores() (*memUserRepo, *memOrgRepo, *memMembershipRepo) {
	return &memUserRepo{users: map[string]domain.User{}},
		&memOrgRepo{orgs: map[string]domain.Organisation{}},
		&memMembershipRepo{edges: map[string]map[string]bool{}}
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
	edges map[string]map[string]bool // userID -> orgID set
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
