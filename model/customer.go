package model

import "time"

// Customer is owned by the main application's data store. The
// reconciliation engine reads customers but never writes them.
type Customer struct {
	ID             int64     `json:"-"`
	CustomerID     string    `json:"customer_id"`
	SequenceNumber string    `json:"sequence_number"`
	FullName       string    `json:"full_name"`
	MobileNumber   string    `json:"mobile_number"`
	CreatedAt      time.Time `json:"created_at"`
}
