package types

import "time"

// SubTask is one step of a task. OrderIndex defines the display order via
// ascending sort; indices need not be contiguous.
type SubTask struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title"`
	Completed  bool      `json:"completed"`
	OrderIndex int64     `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks required fields.
func (s SubTask) Validate() error {
	if s.Title == "" {
		return ErrInvalidTitle
	}
	if s.TaskID == "" {
		return ErrInvalidID
	}
	return nil
}

// Record converts the subtask to a store record.
func (s SubTask) Record() Record {
	r := Record{
		"task_id":     s.TaskID,
		"title":       s.Title,
		"completed":   s.Completed,
		"order_index": s.OrderIndex,
	}
	if s.ID != "" {
		r[ColID] = s.ID
	}
	if !s.CreatedAt.IsZero() {
		r[ColCreatedAt] = s.CreatedAt
	}
	if !s.UpdatedAt.IsZero() {
		r[ColUpdatedAt] = s.UpdatedAt
	}
	return r
}

// SubTaskFromRecord builds a SubTask from a store record.
func SubTaskFromRecord(r Record) SubTask {
	return SubTask{
		ID:         r.String(ColID),
		TaskID:     r.String("task_id"),
		Title:      r.String("title"),
		Completed:  r.Bool("completed"),
		OrderIndex: r.Int("order_index"),
		CreatedAt:  r.Time(ColCreatedAt),
		UpdatedAt:  r.Time(ColUpdatedAt),
	}
}
