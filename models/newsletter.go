package models

import (
	"time"
)

// NewsletterSubscriber records an email subscription. Unsubscribing keeps
// the row and flips IsActive so resubscription reuses it.
type NewsletterSubscriber struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	SubscribedAt time.Time `json:"subscribed_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the NewsletterSubscriber model
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
