package types

import "time"

// CalendarEvent is a user-owned event with start and end instants. ExternalID
// correlates the event with an externally sourced calendar entry when set.
type CalendarEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	AllDay     bool      `json:"all_day"`
	Category   string    `json:"category"`
	Color      string    `json:"color"`
	ExternalID string    `json:"external_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks required fields.
func (e CalendarEvent) Validate() error {
	if e.Title == "" {
		return ErrInvalidTitle
	}
	return nil
}

// Record converts the event to a store record.
func (e CalendarEvent) Record() Record {
	r := Record{
		"user_id":     e.UserID,
		"title":       e.Title,
		"start":       e.Start,
		"end":         e.End,
		"all_day":     e.AllDay,
		"category":    e.Category,
		"color":       e.Color,
		"external_id": e.ExternalID,
	}
	if e.ID != "" {
		r[ColID] = e.ID
	}
	if !e.CreatedAt.IsZero() {
		r[ColCreatedAt] = e.CreatedAt
	}
	if !e.UpdatedAt.IsZero() {
		r[ColUpdatedAt] = e.UpdatedAt
	}
	return r
}

// EventFromRecord builds a CalendarEvent from a store record.
func EventFromRecord(r Record) CalendarEvent {
	return CalendarEvent{
		ID:         r.String(ColID),
		UserID:     r.String("user_id"),
		Title:      r.String("title"),
		Start:      r.Time("start"),
		End:        r.Time("end"),
		AllDay:     r.Bool("all_day"),
		Category:   r.String("category"),
		Color:      r.String("color"),
		ExternalID: r.String("external_id"),
		CreatedAt:  r.Time(ColCreatedAt),
		UpdatedAt:  r.Time(ColUpdatedAt),
	}
}
