package services

import (
	"errors"
	"time"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"github.com/braikhq/braik/pkg/response"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"gorm.io/gorm"
)

// scheduleCalendar flags events that land on a US public holiday so coaches
// can spot scheduling conflicts.
var scheduleCalendar = newScheduleCalendar()

func newScheduleCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = "United States"
	c.AddHoliday(us.Holidays...)
	return c
}

type EventService struct {
	db       *gorm.DB
	scopes   *ScopeService
	billing  *BillingService
	notifier *NotificationService
}

func NewEventService(db *gorm.DB, billing *BillingService, notifier *NotificationService) *EventService {
	return &EventService{
		db:       db,
		scopes:   NewScopeService(db),
		billing:  billing,
		notifier: notifier,
	}
}

type CreateEventRequest struct {
	Title     string     `json:"title" binding:"required"`
	Notes     string     `json:"notes"`
	EventType string     `json:"event_type"`
	Location  string     `json:"location"`
	StartsAt  time.Time  `json:"starts_at" binding:"required"`
	EndsAt    *time.Time `json:"ends_at"`
	Locked    bool       `json:"locked"`
	ScopingRequest
}

type UpdateEventRequest struct {
	Title    *string    `json:"title"`
	Notes    *string    `json:"notes"`
	Location *string    `json:"location"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Locked   *bool      `json:"locked"`
}

type EventResponse struct {
	models.Event
	IsHoliday   bool   `json:"is_holiday"`
	HolidayName string `json:"holiday_name,omitempty"`
	CanEdit     bool   `json:"can_edit"`
	CanRemove   bool   `json:"can_remove"`
}

// List returns the events the viewer may see, applying the visibility filter
// as a post-filter over the team's events.
func (s *EventService) List(teamID uint, v permissions.Viewer) ([]EventResponse, error) {
	if _, err := s.billing.Require(teamID, ActionView); err != nil {
		return nil, err
	}

	var events []models.Event
	if err := s.db.Where("team_id = ?", teamID).Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	creatorIDs := make([]uint, 0, len(events))
	for _, e := range events {
		creatorIDs = append(creatorIDs, e.CreatedBy)
	}
	creatorRoles, err := s.scopes.CreatorRoles(teamID, creatorIDs)
	if err != nil {
		return nil, err
	}

	var visible []EventResponse
	for _, e := range events {
		rr := ruleResource(e.TeamID, e.CreatedBy, creatorRoles[e.CreatedBy], e.Scoping, e.Locked)
		if !permissions.CanView(v, rr) {
			continue
		}

		resp := EventResponse{
			Event:     e,
			CanEdit:   permissions.CanEdit(v, rr),
			CanRemove: permissions.CanRemove(v, rr),
		}
		actual, observed, h := scheduleCalendar.IsHoliday(e.StartsAt)
		if actual || observed {
			resp.IsHoliday = true
			if h != nil {
				resp.HolidayName = h.Name
			}
		}
		visible = append(visible, resp)
	}
	return visible, nil
}

// Get returns a single event if the viewer may see it.
func (s *EventService) Get(id, teamID uint, v permissions.Viewer) (*models.Event, error) {
	if _, err := s.billing.Require(teamID, ActionView); err != nil {
		return nil, err
	}

	event, rr, err := s.loadEvent(id, teamID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanView(v, *rr) {
		return nil, response.NewNotFound("event not found")
	}
	return event, nil
}

// Create stamps scoping from the creator's resolved scope and stores the
// event. The billing gate runs before any permission check.
func (s *EventService) Create(m permissions.Member, v permissions.Viewer, req *CreateEventRequest) (*models.Event, error) {
	if _, err := s.billing.Require(m.TeamID, ActionEditEvents); err != nil {
		return nil, err
	}

	if !permissions.CanCreateResources(m.Role) {
		return nil, denyAndAudit(m.TeamID, v, "events", "create", &permissions.Denial{Reason: "players and parents cannot create events"})
	}

	sc, err := stampScoping(m, v, req.ScopingRequest)
	if err != nil {
		return nil, err
	}

	eventType := req.EventType
	if eventType == "" {
		eventType = "practice"
	}

	event := &models.Event{
		TeamID:    m.TeamID,
		CreatedBy: m.UserID,
		Scoping:   sc,
		Title:     req.Title,
		Notes:     req.Notes,
		EventType: eventType,
		Location:  req.Location,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Locked:    req.Locked,
	}
	if err := s.db.Create(event).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "events", "create", "created event "+event.Title, map[string]interface{}{"event_id": event.ID})
	s.notifier.NotifyTeam(m.TeamID, m.UserID, "event_created", "New event: "+event.Title)

	return event, nil
}

// Update applies a patch after the billing gate and edit authorizer pass.
func (s *EventService) Update(id uint, m permissions.Member, v permissions.Viewer, req *UpdateEventRequest) (*models.Event, error) {
	if _, err := s.billing.Require(m.TeamID, ActionEditEvents); err != nil {
		return nil, err
	}

	event, rr, err := s.loadEvent(id, m.TeamID)
	if err != nil {
		return nil, err
	}

	if err := permissions.AuthorizeEdit(v, *rr); err != nil {
		return nil, denyAndAudit(m.TeamID, v, "events", "update", err)
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Notes != nil {
		event.Notes = *req.Notes
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if req.Locked != nil && *req.Locked != event.Locked {
		// Only the head coach or the creator may flip the lock flag.
		if m.Role != permissions.RoleHeadCoach && m.UserID != event.CreatedBy {
			return nil, denyAndAudit(m.TeamID, v, "events", "update",
				&permissions.Denial{Reason: "only the creator or the head coach may change the lock flag"})
		}
		event.Locked = *req.Locked
	}

	if err := s.db.Save(event).Error; err != nil {
		return nil, err
	}

	Audit(m.TeamID, m.UserID, "events", "update", "updated event "+event.Title, map[string]interface{}{"event_id": event.ID})
	return event, nil
}

// Remove deletes an event; stricter than edit.
func (s *EventService) Remove(id uint, m permissions.Member, v permissions.Viewer) error {
	if _, err := s.billing.Require(m.TeamID, ActionEditEvents); err != nil {
		return err
	}

	event, rr, err := s.loadEvent(id, m.TeamID)
	if err != nil {
		return err
	}

	if err := permissions.AuthorizeRemove(v, *rr); err != nil {
		return denyAndAudit(m.TeamID, v, "events", "remove", err)
	}

	if err := s.db.Delete(event).Error; err != nil {
		return err
	}

	Audit(m.TeamID, m.UserID, "events", "remove", "removed event "+event.Title, map[string]interface{}{"event_id": event.ID})
	return nil
}

func (s *EventService) loadEvent(id, teamID uint) (*models.Event, *permissions.Resource, error) {
	var event models.Event
	if err := s.db.Where("id = ? AND team_id = ?", id, teamID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("event not found")
		}
		return nil, nil, err
	}

	roles, err := s.scopes.CreatorRoles(teamID, []uint{event.CreatedBy})
	if err != nil {
		return nil, nil, err
	}

	rr := ruleResource(event.TeamID, event.CreatedBy, roles[event.CreatedBy], event.Scoping, event.Locked)
	return &event, &rr, nil
}
