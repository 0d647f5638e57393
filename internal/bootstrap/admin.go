package bootstrap

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/quorail/orgauth/internal/config"
	"github.com/quorail/orgauth/internal/domain"
	"github.com/quorail/orgauth/internal/service"
)

// EnsureAdmin registers a default admin identity for dev/e2e when configured.
// A re-run against an existing admin is a no-op.
func EnsureAdmin(lc fx.Lifecycle, cfg config.Config, identity *service.IdentityService, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, cfg, identity, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, cfg config.Config, identity *service.IdentityService, logger *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	result, err := identity.Register(ctx, service.RegisterInput{
		FirstName: "Admin",
		LastName:  "Admin",
		Email:     email,
		Password:  cfg.AdminPassword,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil
		}
		return err
	}

	if logger != nil {
		logger.Info("bootstrap admin user created",
			zap.String("email", email),
			zap.String("user_id", result.User.UserID),
		)
	}
	return nil
}
