package middleware

import (
	"strings"

	"tasklist/services"

	"github.com/gin-gonic/gin"
)

// AccessTokenMiddleware rejects requests without a valid bearer token
// signed with secret. The token subject is stored under "subject".
func AccessTokenMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Authorization header is missing"})
			return
		}

		bearer := strings.SplitN(header, " ", 2)
		if len(bearer) != 2 || bearer[0] != "Bearer" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := services.ParseAccessToken(secret, bearer[1])
		if err != nil {
			c.AbortWithStatusJSON(403, gin.H{"error": "Token is expired or invalid: " + err.Error()})
			return
		}

		c.Set("claims", claims)
		c.Set("subject", claims.Subject)
		c.Next()
	}
}
