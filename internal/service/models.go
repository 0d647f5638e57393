package service

import "github.com/quorail/orgauth/internal/domain"

// RegisterInput carries the self-registration payload.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

// UserView is the outward user representation. The password hash is never
// serialized.
type UserView struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// OrganisationView is the outward organisation representation.
type OrganisationView struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AuthResult bundles a fresh access token with the authenticated user.
type AuthResult struct {
	AccessToken string   `json:"accessToken"`
	User        UserView `json:"user"`
}

func userView(user domain.User) UserView {
	return UserView{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
	}
}

func organisationView(org domain.Organisation) OrganisationView {
	return OrganisationView{
		OrgID:       org.ID,
		Name:        org.Name,
		Description: org.Description,
	}
}
