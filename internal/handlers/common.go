package handlers

import (
	"strconv"

	"github.com/braikhq/braik/internal/middleware"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
)

// teamParam parses the :teamId path segment.
func teamParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("teamId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid team id")
		return 0, false
	}
	return uint(id), true
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// loadViewer resolves the authenticated user's membership and scope for the
// team in the path. Every team-scoped handler goes through here.
func loadViewer(c *gin.Context, scopes *services.ScopeService) (uint, permissions.Member, permissions.Viewer, bool) {
	teamID, ok := teamParam(c)
	if !ok {
		return 0, permissions.Member{}, permissions.Viewer{}, false
	}

	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "authentication required")
		return 0, permissions.Member{}, permissions.Viewer{}, false
	}

	m, v, err := scopes.LoadViewer(userID, teamID)
	if err != nil {
		response.Error(c, err)
		return 0, permissions.Member{}, permissions.Viewer{}, false
	}
	return teamID, m, v, true
}
