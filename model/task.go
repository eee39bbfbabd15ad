package model

import (
	"time"
)

type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Task        string     `json:"task"`
	Priority    float64    `json:"priority"`
	Labels      []string   `json:"labels"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// HasLabel reports whether the task carries label.
func (t Task) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	cp := t
	cp.Labels = append([]string{}, t.Labels...)
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		cp.UpdatedAt = &u
	}
	return cp
}
