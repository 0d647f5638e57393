package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quorail/orgauth/internal/domain"
	"github.com/quorail/orgauth/internal/http/middleware"
	"github.com/quorail/orgauth/internal/service"
)

// IdentityHandler maps the identity service onto the HTTP surface.
type IdentityHandler struct {
	Identity *service.IdentityService
}

// NewIdentityHandler creates the handler set.
func NewIdentityHandler(identity *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{Identity: identity}
}

// Register handles self-registration with an auto-created default
// organisation.
func (h *IdentityHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondEnvelope(c, http.StatusBadRequest, "Bad request", "Registration unsuccessful")
		return
	}

	result, err := h.Identity.Register(c.Request.Context(), req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondValidation(c, vErr)
		case errors.Is(err, domain.ErrDuplicateIdentity):
			respondEnvelope(c, http.StatusBadRequest, "Bad request", "Registration unsuccessful")
		default:
			respondInternal(c)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Registration successful",
		"data": gin.H{
			"accessToken": result.AccessToken,
			"user":        result.User,
		},
	})
}

// Login authenticates with email and password.
func (h *IdentityHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondEnvelope(c, http.StatusUnauthorized, "Bad request", "Authentication failed")
		return
	}

	result, err := h.Identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			respondEnvelope(c, http.StatusUnauthorized, "Bad request", "Authentication failed")
			return
		}
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Login successful",
		"data": gin.H{
			"accessToken": result.AccessToken,
			"user":        result.User,
		},
	})
}

// GetUser returns a user record subject to the self-scope check.
func (h *IdentityHandler) GetUser(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		respondEnvelope(c, http.StatusUnauthorized, "Bad request", "Authentication failed")
		return
	}

	view, err := h.Identity.GetUser(c.Request.Context(), requesterID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondEnvelope(c, http.StatusNotFound, "Not Found", "User Not Found")
		case errors.Is(err, domain.ErrNotAuthorized):
			respondEnvelope(c, http.StatusForbidden, "Forbidden", domain.ErrNotAuthorized.Error())
		default:
			respondInternal(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("%s's records", view.FirstName),
		"data":    view,
	})
}

// ListOrganisations returns every organisation the requester belongs to.
func (h *IdentityHandler) ListOrganisations(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		respondEnvelope(c, http.StatusUnauthorized, "Bad request", "Authentication failed")
		return
	}

	user, orgs, err := h.Identity.ListOrganisations(c.Request.Context(), requesterID)
	if err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("%s's Organisations", user.FirstName),
		"data": gin.H{
			"organisations": orgs,
		},
	})
}

// GetOrganisation returns one organisation's details, membership permitting.
func (h *IdentityHandler) GetOrganisation(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		respondEnvelope(c, http.StatusUnauthorized, "Bad request", "Authentication failed")
		return
	}

	view, err := h.Identity.GetOrganisation(c.Request.Context(), requesterID, c.Param("orgId"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrgNotFound):
			respondEnvelope(c, http.StatusBadRequest, "Bad Request", "Organisation Not Found")
		case errors.Is(err, domain.ErrNotAuthorized):
			respondEnvelope(c, http.StatusForbidden, "Forbidden", domain.ErrNotAuthorized.Error())
		default:
			respondInternal(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("%s's details", view.Name),
		"data":    view,
	})
}

// CreateOrganisation registers a new organisation with the requester as its
// first member.
func (h *IdentityHandler) CreateOrganisation(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		respondEnvelope(c, http.StatusUnauthorized, "Bad request", "Authentication failed")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondEnvelope(c, http.StatusBadRequest, "Bad Request", "Client error")
		return
	}

	view, err := h.Identity.CreateOrganisation(c.Request.Context(), requesterID, req.Name, req.Description)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			respondEnvelope(c, http.StatusBadRequest, "Bad Request", "Client error")
			return
		}
		respondInternal(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Organisation created successfully",
		"data":    view,
	})
}

// AddMember links an existing user into an organisation.
func (h *IdentityHandler) AddMember(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		respondEnvelope(c, http.StatusBadRequest, "Bad Request", "Client error")
		return
	}

	if err := h.Identity.AddMember(c.Request.Context(), c.Param("orgId"), req.UserID); err != nil {
		switch {
		case errors.Is(err, domain.ErrOrgNotFound):
			respondEnvelope(c, http.StatusBadRequest, "Bad Request", "Organisation Not Found")
		case errors.Is(err, domain.ErrUserNotFound):
			respondEnvelope(c, http.StatusBadRequest, "Bad Request", "User Not Found")
		default:
			respondInternal(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User added to organisation successfully",
	})
}

func respondEnvelope(c *gin.Context, status int, label, message string) {
	c.JSON(status, gin.H{
		"status":     label,
		"message":    message,
		"statusCode": status,
	})
}

func respondValidation(c *gin.Context, vErr *domain.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"errors": []gin.H{
			{"field": vErr.Field, "message": vErr.Error()},
		},
	})
}

func respondInternal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":     "error",
		"message":    "Internal server error",
		"statusCode": http.StatusInternalServerError,
	})
}
