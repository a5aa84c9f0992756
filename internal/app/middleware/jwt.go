package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/domain/services"
	"campmanager-service/internal/infrastructure/config"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware initializes the authentication middleware
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken strips the "Bearer " prefix from the authorization header
func extractToken(authHeader string) string {
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// abortUnauthorized writes a 401 and stops the chain
func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// Authenticate validates the JWT and stores the claims on the context.
// The engine re-checks capabilities itself; this middleware only
// establishes identity.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		claims, err := jwtService.ExtractClaims(extractToken(authHeader))
		if err != nil {
			abortUnauthorized(c, "Invalid token: "+err.Error())
			return
		}

		c.Set("claims", claims)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole restricts a route group to the given roles
func RequireRole(roles ...models.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			abortUnauthorized(c, "authentication required")
			return
		}
		role, _ := roleValue.(models.AdminRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "insufficient role",
			"data":    nil,
		})
		c.Abort()
	}
}

// CurrentActor builds the engine actor from the authenticated claims.
func CurrentActor(c *gin.Context) services.Actor {
	if claimsValue, exists := c.Get("claims"); exists {
		if claims, ok := claimsValue.(*services.JWTClaims); ok {
			return claims.Actor()
		}
	}
	return services.Actor{}
}
