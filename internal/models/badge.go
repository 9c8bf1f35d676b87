package models

import "time"

// Badge is a one-way achievement flag. Once unlocked it stays unlocked.
type Badge struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Icon        string     `json:"icon" yaml:"icon"`
	IsUnlocked  bool       `json:"is_unlocked" yaml:"is_unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty" yaml:"unlocked_at,omitempty"`
}

// Clone returns a copy of b that shares no mutable state with it.
func (b Badge) Clone() Badge {
	c := b
	if b.UnlockedAt != nil {
		t := *b.UnlockedAt
		c.UnlockedAt = &t
	}
	return c
}
