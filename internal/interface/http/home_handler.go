package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Hello answers the root health route.
func Hello(c *gin.Context) {
	c.String(http.StatusOK, msgHello)
}
