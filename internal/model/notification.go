package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories
const (
	NotificationCategoryLicence = "licence"
	NotificationCategoryDemande = "demande"
	NotificationCategoryPayment = "payment"
	NotificationCategorySystem  = "system"
)

// Notification is a durable message addressed to one user. Once persisted it
// is immutable except for the read flag, and only the dispatcher creates it.
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Category  string    `json:"category" db:"category"`
	Link      *string   `json:"link,omitempty" db:"link"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NotificationEvent is the wire form pushed to live connections and published
// on the broker for sibling instances.
type NotificationEvent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Link      *string   `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Event builds the live payload for a persisted notification.
func (n *Notification) Event() *NotificationEvent {
	return &NotificationEvent{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
