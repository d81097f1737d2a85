package handlers

import (
	"strconv"

	"github.com/braikhq/braik/internal/middleware"
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{teamService: services.NewTeamService(db)}
}

// Create provisions a team with the caller as head coach
// POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var req services.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.teamService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// Join adds the caller to a team via invite code
// POST /api/teams/join
func (h *TeamHandler) Join(c *gin.Context) {
	var req services.JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, err := h.teamService.Join(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, membership)
}

// List returns the caller's teams
// GET /api/teams
func (h *TeamHandler) List(c *gin.Context) {
	memberships, err := h.teamService.ListForUser(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, memberships)
}

// Get returns one team
// GET /api/teams/:teamId
func (h *TeamHandler) Get(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}

	team, err := h.teamService.Get(teamID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, team)
}

// Members lists team memberships
// GET /api/teams/:teamId/members
func (h *TeamHandler) Members(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}

	members, err := h.teamService.Members(teamID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

// AssignRole sets a member's role and coaching assignment
// PUT /api/teams/:teamId/members/:userId/role
func (h *TeamHandler) AssignRole(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req services.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, svcErr := h.teamService.AssignRole(teamID, middleware.GetUserID(c), uint(targetID), &req)
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	response.Success(c, membership)
}

// Roster lists the team's players
// GET /api/teams/:teamId/roster
func (h *TeamHandler) Roster(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}

	players, err := h.teamService.Roster(teamID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, players)
}

// AddPlayer adds a roster entry
// POST /api/teams/:teamId/roster
func (h *TeamHandler) AddPlayer(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}

	var req services.AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	player, err := h.teamService.AddPlayer(teamID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, player)
}

// LinkGuardian connects a parent account to a player
// POST /api/teams/:teamId/roster/guardians
func (h *TeamHandler) LinkGuardian(c *gin.Context) {
	teamID, ok := teamParam(c)
	if !ok {
		return
	}

	var req services.LinkGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	link, err := h.teamService.LinkGuardian(teamID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}
