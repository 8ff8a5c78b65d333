package domain

import "time"

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationTypePayment      NotificationType = "payment"
	NotificationTypeTicket       NotificationType = "ticket"
	NotificationTypeService      NotificationType = "service"
	NotificationTypeSystem       NotificationType = "system"
	NotificationTypeSubscription NotificationType = "subscription"
	NotificationTypeComplaint    NotificationType = "complaint"
	NotificationTypeRating       NotificationType = "rating"
	NotificationTypeReport       NotificationType = "report"
)

// Notification is a per-user in-app message row.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	RelatedID *string
	IsRead    bool
	CreatedAt time.Time
}
