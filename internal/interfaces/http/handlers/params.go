// internal/interfaces/http/handlers/params.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseUintParam parses a decimal string into a uint ID
func parseUintParam(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// idParam reads the :id path parameter
func idParam(c *gin.Context) (uint, bool) {
	return parseUintParam(c.Param("id"))
}

// parseIntQuery reads an integer query parameter with a fallback
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
