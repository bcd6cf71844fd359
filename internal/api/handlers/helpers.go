package handlers

import (
	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
