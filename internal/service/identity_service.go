package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/quorail/orgauth/internal/authz"
	"github.com/quorail/orgauth/internal/domain"
	"github.com/quorail/orgauth/internal/membership"
	"github.com/quorail/orgauth/internal/password"
	"github.com/quorail/orgauth/internal/repository"
	"github.com/quorail/orgauth/internal/token"
)

// IdentityService encapsulates registration, login, and the membership-gated
// record reads. Every operation receives the resolved requester id explicitly.
type IdentityService struct {
	users     repository.UserRepository
	orgs      repository.OrganisationRepository
	registrar repository.Registrar
	graph     *membership.Graph
	authz     *authz.Authorizer
	tokens    *token.Issuer
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewIdentityService wires dependencies.
func NewIdentityService(
	users repository.UserRepository,
	orgs repository.OrganisationRepository,
	registrar repository.Registrar,
	graph *membership.Graph,
	authorizer *authz.Authorizer,
	tokens *token.Issuer,
	logger *zap.Logger,
) *IdentityService {
	return &IdentityService{
		users:     users,
		orgs:      orgs,
		registrar: registrar,
		graph:     graph,
		authz:     authorizer,
		tokens:    tokens,
		logger:    logger,
		tracer:    otel.Tracer("github.com/quorail/orgauth/internal/service"),
	}
}

// Register creates the user, their default organisation, and the linking
// membership as one atomic unit, then issues an access token. A duplicate
// email surfaces as domain.ErrDuplicateIdentity; the first missing required
// field surfaces as a ValidationError naming it.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	ctx, span := s.startSpan(ctx, "IdentityService.Register")
	defer span.End()

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	switch {
	case firstName == "":
		return nil, domain.NewValidationError("firstName")
	case lastName == "":
		return nil, domain.NewValidationError("lastName")
	case email == "":
		return nil, domain.NewValidationError("email")
	case input.Password == "":
		return nil, domain.NewValidationError("password")
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(input.Phone),
	}
	org := domain.Organisation{
		ID:   uuid.NewString(),
		Name: fmt.Sprintf("%s's Organisation", firstName),
	}

	if err := s.registrar.RegisterUser(ctx, user, org); err != nil {
		span.RecordError(err)
		return nil, err
	}

	access, err := s.tokens.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log().Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("org_id", org.ID),
	)
	return &AuthResult{AccessToken: access, User: userView(user)}, nil
}

// Login authenticates by email and password. Every failure collapses to
// domain.ErrAuthenticationFailed so callers cannot tell which factor was
// wrong.
func (s *IdentityService) Login(ctx context.Context, email, plaintext string) (*AuthResult, error) {
	ctx, span := s.startSpan(ctx, "IdentityService.Login")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || plaintext == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	if !password.Verify(plaintext, user.PasswordHash) {
		return nil, domain.ErrAuthenticationFailed
	}

	access, err := s.tokens.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log().Info("user logged in", zap.String("user_id", user.ID))
	return &AuthResult{AccessToken: access, User: userView(user)}, nil
}

// GetUser returns the target user record when the self-scope check allows it.
func (s *IdentityService) GetUser(ctx context.Context, requesterID, targetID string) (UserView, error) {
	ctx, span := s.startSpan(ctx, "IdentityService.GetUser")
	defer span.End()

	if err := s.authz.CanViewUser(ctx, requesterID, targetID); err != nil {
		return UserView{}, err
	}
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return UserView{}, err
	}
	return userView(user), nil
}

// ListOrganisations returns the requester and every organisation they belong
// to.
func (s *IdentityService) ListOrganisations(ctx context.Context, requesterID string) (UserView, []OrganisationView, error) {
	ctx, span := s.startSpan(ctx, "IdentityService.ListOrganisations")
	defer span.End()

	user, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return UserView{}, nil, err
	}

	orgs, err := s.graph.OrganisationsOf(ctx, requesterID)
	if err != nil {
		return UserView{}, nil, err
	}

	views := make([]OrganisationView, 0, len(orgs))
	for _, org := range orgs {
		views = append(views, organisationView(org))
	}
	return userView(user), views, nil
}

// GetOrganisation returns the organisation record when the requester is a
// member.
func (s *IdentityService) GetOrganisation(ctx context.Context, requesterID, orgID string) (OrganisationView, error) {
	ctx, span := s.startSpan(ctx, "IdentityService.GetOrganisation")
	defer span.End()

	if err := s.authz.CanViewOrganisation(ctx, requesterID, orgID); err != nil {
		return OrganisationView{}, err
	}
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return OrganisationView{}, err
	}
	return organisationView(org), nil
}

// CreateOrganisation creates an organisation and makes the creator its first
// member in one atomic unit. Any authenticated identity may create one.
func (s *IdentityService) CreateOrganisation(ctx context.Context, creatorID, name, description string) (OrganisationView, error) {
	ctx, span := s.startSpan(ctx, "IdentityService.CreateOrganisation")
	defer span.End()

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return OrganisationView{}, domain.NewValidationError("name")
	}

	org := domain.Organisation{
		ID:          uuid.NewString(),
		Name:        trimmed,
		Description: strings.TrimSpace(description),
	}
	if err := s.registrar.CreateOrganisationWithOwner(ctx, org, creatorID); err != nil {
		span.RecordError(err)
		return OrganisationView{}, err
	}

	s.log().Info("organisation created",
		zap.String("org_id", org.ID),
		zap.String("creator_id", creatorID),
	)
	return organisationView(org), nil
}

// AddMember links an existing user to an existing organisation. Re-adding an
// existing member is a no-op success.
func (s *IdentityService) AddMember(ctx context.Context, orgID, userID string) error {
	ctx, span := s.startSpan(ctx, "IdentityService.AddMember")
	defer span.End()

	if err := s.graph.AddMembership(ctx, userID, orgID); err != nil {
		return err
	}
	s.log().Info("member added",
		zap.String("org_id", orgID),
		zap.String("user_id", userID),
	)
	return nil
}

func (s *IdentityService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *IdentityService) log() *zap.Logger {
	if s.logger != nil {
		return s.logger
	}
	return zap.L()
}
