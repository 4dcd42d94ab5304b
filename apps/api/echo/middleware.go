package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/unimatric/admissions/core/user"
)

// roleMiddleware only lets through users authenticated with one of roles.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(user.RoleAdmin)
}

func applicantMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(user.RoleApplicant)
}
