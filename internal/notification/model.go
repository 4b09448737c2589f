package notification

import "time"

// TypeNewRegistration tags notifications created by the submission workflow.
const TypeNewRegistration = "new_registration"

// Notification is one admin-facing notification record.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fields is a notification without its store-assigned identity. New records
// always start unread.
type Fields struct {
	Type    string
	Title   string
	Message string
}
