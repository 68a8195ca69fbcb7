package types

import "time"

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task check-in frequency values.
const (
	CheckInNone   = "none"
	CheckInDaily  = "daily"
	CheckInWeekly = "weekly"
)

// Task is a user-owned unit of work.
type Task struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	DueDate          time.Time `json:"due_date"`
	Priority         string    `json:"priority"`
	Completed        bool      `json:"completed"`
	CheckInFrequency string    `json:"check_in_frequency"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Validate checks enum fields and the title.
func (t Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidTitle
	}
	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}
	switch t.CheckInFrequency {
	case "", CheckInNone, CheckInDaily, CheckInWeekly:
	default:
		return ErrInvalidFrequency
	}
	return nil
}

// Record converts the task to a store record. The ID and timestamps are
// included only when set, so creation leaves them to the store.
func (t Task) Record() Record {
	r := Record{
		"user_id":            t.UserID,
		"title":              t.Title,
		"description":        t.Description,
		"due_date":           t.DueDate,
		"priority":           t.Priority,
		"completed":          t.Completed,
		"check_in_frequency": t.CheckInFrequency,
	}
	if t.ID != "" {
		r[ColID] = t.ID
	}
	if !t.CreatedAt.IsZero() {
		r[ColCreatedAt] = t.CreatedAt
	}
	if !t.UpdatedAt.IsZero() {
		r[ColUpdatedAt] = t.UpdatedAt
	}
	return r
}

// TaskFromRecord builds a Task from a store record.
func TaskFromRecord(r Record) Task {
	return Task{
		ID:               r.String(ColID),
		UserID:           r.String("user_id"),
		Title:            r.String("title"),
		Description:      r.String("description"),
		DueDate:          r.Time("due_date"),
		Priority:         r.String("priority"),
		Completed:        r.Bool("completed"),
		CheckInFrequency: r.String("check_in_frequency"),
		CreatedAt:        r.Time(ColCreatedAt),
		UpdatedAt:        r.Time(ColUpdatedAt),
	}
}
