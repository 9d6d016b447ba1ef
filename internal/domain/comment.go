package domain

import "time"

// Comment is an append-only note on a ticket. No edit or delete.
type Comment struct {
	ID        string
	TicketID  string
	UserID    string
	Body      string
	Author    *UserRef
	CreatedAt time.Time
}
