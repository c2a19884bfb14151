package domain

import "time"

// NotificationKind identifies which reminder template an email notification
// was rendered from. The set is closed; rendering switches over it
// exhaustively.
type NotificationKind string

const (
	KindClient14Days NotificationKind = "client_14_days"
	KindClient7Days  NotificationKind = "client_7_days"
	KindSales7Days   NotificationKind = "sales_7_days"
	KindManager1Day  NotificationKind = "manager_1_day"
)

// EmailNotification records one delivery attempt in the invoice's
// notification log. Entries are appended for failures as well, so
// undelivered reminders remain auditable.
type EmailNotification struct {
	Kind      NotificationKind `json:"kind" bson:"kind"`
	Recipient string           `json:"recipient" bson:"recipient"`
	Success   bool             `json:"success" bson:"success"`
	SentAt    time.Time        `json:"sent_at" bson:"sent_at"`
}
