package middleware

import (
	"log"
	"net/http"

	"terravista/api/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired for downstream handlers and middleware.
const (
	CtxUserID    = "user_id"
	CtxUsername  = "username"
	CtxUserEmail = "user_email"
	CtxSessionID = "session_id"
)

// AuthRequired guards a route group: it accepts the JWT from the cookie or
// the Authorization header and places the claims into the gin context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("jwt_token")
		if err != nil {
			tokenString = c.GetHeader("Authorization")
			if tokenString == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
			if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
				tokenString = tokenString[7:]
			}
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthRequired: Invalid JWT token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxSessionID, claims.SessionID)

		c.Next()
	}
}
