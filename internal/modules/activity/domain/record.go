package domain

import "time"

// Record is one delivered monitoring event: exactly one record is emitted
// per event that passes the selection filter, in arrival order.
type Record struct {
	ChannelID    int64     `json:"channel_id"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	Sender       string    `json:"sender"`
	Body         string    `json:"body"`
	Edited       bool      `json:"edited"`
	Timestamp    time.Time `json:"timestamp"`
	ReceivedAt   time.Time `json:"received_at"`
}
