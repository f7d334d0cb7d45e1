// internal/server/respond.go
package server

import "github.com/gin-gonic/gin"

// Failures are plain JSON bodies with an "error" field; the console surfaces
// that field as the failure message.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
