package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/rbac"
)

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.Actor().Role.IsAdmin() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// requireDecision runs the permission evaluator for the request's actor. The
// admin route group already gates on role; this is the per-target check, so a
// decision failure here is a real denial, not a missing login.
func requireDecision(ctx echo.Context, target rbac.Target, action rbac.Action) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if decision := rbac.Decide(claims.Actor(), target, action); !decision.Allowed {
		return core.NewPermissionError(string(decision.Reason))
	}
	return nil
}
