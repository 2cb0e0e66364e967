// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// StatementQueueName is the durable queue carrying StatementIssuedEvent.
const StatementQueueName = "statement.issued"

// StatementIssuedEvent is published after a statement has been generated.
// It carries the totals so downstream consumers can log or audit billing
// without recomputing the statement.
type StatementIssuedEvent struct {
	StatementID      string   `json:"statement_id"`
	Customer         string   `json:"customer"`
	IssuedBy         string   `json:"issued_by"`
	PlayIDs          []string `json:"plays"`
	Performances     int      `json:"performances"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	VolumeCredits    int      `json:"volume_credits"`
	IssuedAt         string   `json:"issued_at"`
}
