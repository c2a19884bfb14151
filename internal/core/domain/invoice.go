package domain

import (
	"errors"
	"time"
)

// InvoiceStatus represents the lifecycle state of an invoice.
type InvoiceStatus string

const (
	StatusPending   InvoiceStatus = "pending"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// Statuses is the closed set of valid invoice statuses.
var Statuses = []InvoiceStatus{StatusPending, StatusPaid, StatusOverdue, StatusCancelled}

// IsValid reports whether s is one of the enumerated statuses.
// There is no transition graph: any status is reachable from any status.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether an invoice in this status is excluded from
// reminder processing.
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// CommunicationType classifies a communication entry.
type CommunicationType string

const (
	CommEmail   CommunicationType = "email"
	CommCall    CommunicationType = "call"
	CommMessage CommunicationType = "message"
	CommOther   CommunicationType = "other"
)

// IsValid reports whether t is one of the enumerated communication types.
func (t CommunicationType) IsValid() bool {
	switch t {
	case CommEmail, CommCall, CommMessage, CommOther:
		return true
	}
	return false
}

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrInvalidStatus    = errors.New("invalid invoice status")
	ErrInvalidCommType  = errors.New("invalid communication type")
	ErrMessageRequired  = errors.New("message is required")
	ErrMissingFields    = errors.New("required fields missing")
	ErrDuplicateInvoice = errors.New("invoice number already exists")
	ErrForbidden        = errors.New("access forbidden")
	ErrReminderRunning  = errors.New("reminder run already in progress")
)

// LineItem is a free-form description/quantity/price triple.
type LineItem struct {
	Description string  `json:"description" bson:"description"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"`
}

// StatusHistoryEntry records a single status assignment on an invoice.
// The history is append-only; the invoice status always equals the status
// of the most recent entry.
type StatusHistoryEntry struct {
	Status    InvoiceStatus `json:"status" bson:"status"`
	ChangedBy string        `json:"changed_by" bson:"changed_by"`
	ChangedAt time.Time     `json:"changed_at" bson:"changed_at"`
}

// Communication records one client contact on an invoice (append-only).
type Communication struct {
	SenderID  string            `json:"sender_id" bson:"sender_id"`
	Message   string            `json:"message" bson:"message"`
	Type      CommunicationType `json:"type" bson:"type"`
	Timestamp time.Time         `json:"timestamp" bson:"timestamp"`
}

// Invoice is the core aggregate root.
type Invoice struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	InvoiceNumber string        `json:"invoice_number,omitempty" bson:"invoice_number,omitempty"`
	ClientID      string        `json:"client_id" bson:"client_id"`
	SalesPersonID string        `json:"sales_person_id" bson:"sales_person_id"`
	ClientName    string        `json:"client_name" bson:"client_name"`
	Amount        float64       `json:"amount" bson:"amount"`
	DueDate       time.Time     `json:"due_date" bson:"due_date"`
	Status        InvoiceStatus `json:"status" bson:"status"`
	Items         []LineItem    `json:"items,omitempty" bson:"items,omitempty"`
	FilePath      string        `json:"file_path,omitempty" bson:"file_path,omitempty"`

	StatusHistory      []StatusHistoryEntry `json:"status_history" bson:"status_history"`
	Communications     []Communication      `json:"communications,omitempty" bson:"communications,omitempty"`
	EmailNotifications []EmailNotification  `json:"email_notifications,omitempty" bson:"email_notifications,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
