package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/quorail/orgauth/internal/config"
	"github.com/quorail/orgauth/internal/http/handler"
	"github.com/quorail/orgauth/internal/http/middleware"
)

// NewRouter wires gin routes and middleware.
func NewRouter(cfg config.Config, identityHandler *handler.IdentityHandler, authMiddleware *middleware.Auth, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	auth := r.Group("/auth")
	{
		auth.POST("/register", identityHandler.Register)
		auth.POST("/login", identityHandler.Login)
	}

	api := r.Group("/api", authMiddleware.RequireToken)
	{
		api.GET("/users/:id", identityHandler.GetUser)
		api.GET("/organisations", identityHandler.ListOrganisations)
		api.GET("/organisations/:orgId", identityHandler.GetOrganisation)
		api.POST("/organisations", identityHandler.CreateOrganisation)
		api.POST("/organisations/:orgId/users", identityHandler.AddMember)
	}

	return r
}
