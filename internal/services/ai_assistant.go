package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/logger"
	"github.com/braikhq/braik/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const assistantPrompt = `You are an assistant for a football team's coaching staff.
Answer the coach's question using the team context below. If the coach asks you
to take an action (schedule an event, send an announcement), do NOT claim you
did it. Instead, append a JSON block listing proposed actions in this exact form:

` + "```json" + `
{"actions": [{"kind": "create_event", "summary": "...", "payload": {...}}]}
` + "```" + `

Supported kinds: create_event (payload: title, event_type, location, starts_at RFC3339),
send_announcement (payload: title, body).
Never invent team facts not present in the context.

Team context:
%s

Coach's question:
%s
`

// AIAssistantService answers coach questions and manages proposed actions.
// The assistant never mutates team data directly: every suggested action
// becomes a pending proposal that only the head coach can execute.
type AIAssistantService struct {
	db       *gorm.DB
	llm      *LLMClient
	billing  *BillingService
	events   *EventService
	notifier *NotificationService
}

func NewAIAssistantService(db *gorm.DB, llm *LLMClient, billing *BillingService, events *EventService, notifier *NotificationService) *AIAssistantService {
	return &AIAssistantService{
		db:       db,
		llm:      llm,
		billing:  billing,
		events:   events,
		notifier: notifier,
	}
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type AskResponse struct {
	Answer    string              `json:"answer"`
	Proposals []models.AIProposal `json:"proposals,omitempty"`
}

type proposedAction struct {
	Kind    string          `json:"kind"`
	Summary string          `json:"summary"`
	Payload json.RawMessage `json:"payload"`
}

// Ask sends the coach's question to the LLM with a team context snapshot and
// records any proposed actions as pending proposals.
func (s *AIAssistantService) Ask(ctx context.Context, m permissions.Member, req *AskRequest) (*AskResponse, error) {
	if _, err := s.billing.Require(m.TeamID, ActionUseAI); err != nil {
		return nil, err
	}

	if !permissions.IsCoach(m.Role) {
		return nil, response.NewPermissionDenied("only coaches may use the assistant")
	}

	teamContext, err := s.buildTeamContext(m.TeamID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(assistantPrompt, teamContext, req.Question)
	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, response.NewServerError("assistant unavailable: " + err.Error())
	}

	answerText, actions := splitActions(answer)

	var proposals []models.AIProposal
	for _, a := range actions {
		if a.Kind != "create_event" && a.Kind != "send_announcement" {
			logger.Warn().Str("kind", a.Kind).Msg("assistant proposed unsupported action, skipping")
			continue
		}
		p := models.AIProposal{
			TeamID:         m.TeamID,
			CreatedBy:      m.UserID,
			IdempotencyKey: uuid.New().String(),
			Kind:           a.Kind,
			Summary:        a.Summary,
			Payload:        string(a.Payload),
			Status:         models.ProposalPending,
		}
		if err := s.db.Create(&p).Error; err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}

	Audit(m.TeamID, m.UserID, "ai", "ask", "asked the assistant",
		map[string]interface{}{"proposals": len(proposals)})

	return &AskResponse{Answer: answerText, Proposals: proposals}, nil
}

// ListProposals returns the team's proposals, newest first.
func (s *AIAssistantService) ListProposals(teamID uint, m permissions.Member, status string) ([]models.AIProposal, error) {
	if !permissions.IsCoach(m.Role) {
		return nil, response.NewPermissionDenied("only coaches may view assistant proposals")
	}

	query := s.db.Where("team_id = ?", teamID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var proposals []models.AIProposal
	if err := query.Order("created_at DESC").Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// Confirm executes a pending proposal. Only the head coach may confirm. The
// pending to executed transition is claimed with a conditional update so a
// double-submit executes the action exactly once; re-confirming an executed
// proposal returns its stored result.
func (s *AIAssistantService) Confirm(proposalID uint, m permissions.Member, v permissions.Viewer) (*models.AIProposal, error) {
	if _, err := s.billing.Require(m.TeamID, ActionUseAI); err != nil {
		return nil, err
	}

	if m.Role != permissions.RoleHeadCoach {
		return nil, denyAndAudit(m.TeamID, v, "ai", "confirm",
			&permissions.Denial{Reason: "only the head coach may execute assistant proposals"})
	}

	p, err := s.loadProposal(proposalID, m.TeamID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claim := s.db.Model(&models.AIProposal{}).
		Where("id = ? AND status = ?", p.ID, models.ProposalPending).
		Updates(map[string]interface{}{
			"status":     models.ProposalExecuted,
			"decided_by": m.UserID,
			"decided_at": now,
		})
	if claim.Error != nil {
		return nil, claim.Error
	}

	if claim.RowsAffected == 0 {
		// Someone got there first. Re-confirming an executed proposal is
		// idempotent; confirming a rejected one is a conflict.
		fresh, err := s.loadProposal(proposalID, m.TeamID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == models.ProposalExecuted {
			return fresh, nil
		}
		return nil, response.NewConflict("this proposal was already rejected")
	}

	result, execErr := s.execute(p, m, v)
	if execErr != nil {
		// Release the claim so the head coach can retry after fixing the cause.
		s.db.Model(&models.AIProposal{}).Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"status":     models.ProposalPending,
				"decided_by": nil,
				"decided_at": nil,
			})
		return nil, execErr
	}

	resultJSON, _ := json.Marshal(result)
	if err := s.db.Model(&models.AIProposal{}).Where("id = ?", p.ID).
		Update("result", string(resultJSON)).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "ai", "confirm", "executed proposal "+p.Summary,
		map[string]interface{}{"proposal_id": p.ID, "kind": p.Kind})

	return s.loadProposal(proposalID, m.TeamID)
}

// Reject marks a pending proposal as rejected. Rejection is terminal and
// recorded, never silently dropped.
func (s *AIAssistantService) Reject(proposalID uint, m permissions.Member, v permissions.Viewer) (*models.AIProposal, error) {
	if m.Role != permissions.RoleHeadCoach {
		return nil, denyAndAudit(m.TeamID, v, "ai", "reject",
			&permissions.Denial{Reason: "only the head coach may reject assistant proposals"})
	}

	p, err := s.loadProposal(proposalID, m.TeamID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claim := s.db.Model(&models.AIProposal{}).
		Where("id = ? AND status = ?", p.ID, models.ProposalPending).
		Updates(map[string]interface{}{
			"status":     models.ProposalRejected,
			"decided_by": m.UserID,
			"decided_at": now,
		})
	if claim.Error != nil {
		return nil, claim.Error
	}
	if claim.RowsAffected == 0 {
		return nil, response.NewConflict("this proposal has already been decided")
	}

	Audit(m.TeamID, m.UserID, "ai", "reject", "rejected proposal "+p.Summary,
		map[string]interface{}{"proposal_id": p.ID})

	return s.loadProposal(proposalID, m.TeamID)
}

type createEventPayload struct {
	Title     string `json:"title"`
	EventType string `json:"event_type"`
	Location  string `json:"location"`
	StartsAt  string `json:"starts_at"`
}

type announcementPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// execute runs the proposed action through the same services a coach would
// use directly, so every permission and billing check still applies.
func (s *AIAssistantService) execute(p *models.AIProposal, m permissions.Member, v permissions.Viewer) (map[string]interface{}, error) {
	switch p.Kind {
	case "create_event":
		var payload createEventPayload
		if err := json.Unmarshal([]byte(p.Payload), &payload); err != nil {
			return nil, response.NewBadRequest("proposal payload is malformed")
		}
		startsAt, err := time.Parse(time.RFC3339, payload.StartsAt)
		if err != nil {
			return nil, response.NewBadRequest("proposal has an invalid start time")
		}
		event, err := s.events.Create(m, v, &CreateEventRequest{
			Title:     payload.Title,
			EventType: payload.EventType,
			Location:  payload.Location,
			StartsAt:  startsAt,
		})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"event_id": event.ID, "title": event.Title}, nil

	case "send_announcement":
		var payload announcementPayload
		if err := json.Unmarshal([]byte(p.Payload), &payload); err != nil {
			return nil, response.NewBadRequest("proposal payload is malformed")
		}
		if !permissions.CanPostAnnouncements(m.Role) {
			return nil, response.NewPermissionDenied("your role cannot post announcements")
		}
		s.notifier.NotifyTeam(m.TeamID, m.UserID, "announcement", payload.Title)
		return map[string]interface{}{"title": payload.Title}, nil

	default:
		return nil, response.NewBadRequest("unsupported proposal kind: " + p.Kind)
	}
}

func (s *AIAssistantService) loadProposal(id, teamID uint) (*models.AIProposal, error) {
	var p models.AIProposal
	if err := s.db.Where("id = ? AND team_id = ?", id, teamID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("proposal not found")
		}
		return nil, err
	}
	return &p, nil
}

// buildTeamContext assembles a compact roster and schedule snapshot for the
// prompt.
func (s *AIAssistantService) buildTeamContext(teamID uint) (string, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return "", err
	}

	var players []models.Player
	if err := s.db.Where("team_id = ? AND status = ?", teamID, "active").
		Order("position_group ASC, name ASC").Find(&players).Error; err != nil {
		return "", err
	}

	var upcoming []models.Event
	s.db.Where("team_id = ? AND starts_at > ?", teamID, time.Now()).
		Order("starts_at ASC").Limit(10).Find(&upcoming)

	var b strings.Builder
	fmt.Fprintf(&b, "Team: %s (%s)\n", team.Name, team.SchoolLevel)
	fmt.Fprintf(&b, "Roster (%d active players):\n", len(players))
	for _, p := range players {
		fmt.Fprintf(&b, "- %s (%s)\n", p.Name, p.PositionGroup)
	}
	if len(upcoming) > 0 {
		b.WriteString("Upcoming events:\n")
		for _, e := range upcoming {
			fmt.Fprintf(&b, "- %s %s at %s\n", e.StartsAt.Format("2006-01-02 15:04"), e.Title, e.Location)
		}
	}
	return b.String(), nil
}

// splitActions separates the answer text from a trailing actions JSON block.
func splitActions(answer string) (string, []proposedAction) {
	start := strings.Index(answer, "```json")
	if start == -1 {
		return answer, nil
	}
	rest := answer[start+len("```json"):]
	end := strings.Index(rest, "```")
	if end == -1 {
		return answer, nil
	}

	var parsed struct {
		Actions []proposedAction `json:"actions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &parsed); err != nil {
		logger.Warn().Err(err).Msg("assistant action block did not parse")
		return answer, nil
	}

	text := strings.TrimSpace(answer[:start])
	return text, parsed.Actions
}
