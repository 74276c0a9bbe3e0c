package amqp

import (
	"encoding/json"
	"time"

	"evn/internal/core"
)

// CategoryUsage is one category's totals in a notification. Amounts are
// decimal strings to keep subscribers free of float drift.
type CategoryUsage struct {
	Kind  string `json:"kind"`
	Units int64  `json:"units"`
	Net   string `json:"net"`
	Gross string `json:"gross"`
}

// PeriodRegisteredMessage announces one persisted billing period.
type PeriodRegisteredMessage struct {
	Date       string          `json:"date"`
	Categories []CategoryUsage `json:"categories"`
	Timestamp  time.Time       `json:"timestamp"`
}

func NewPeriodRegisteredMessage(period core.BillingPeriod) *PeriodRegisteredMessage {
	msg := &PeriodRegisteredMessage{
		Date:      period.Date.String(),
		Timestamp: time.Now(),
	}
	for _, total := range period.Totals {
		msg.Categories = append(msg.Categories, CategoryUsage{
			Kind:  string(total.Kind),
			Units: total.Units,
			Net:   total.Net.String(),
			Gross: total.Gross.String(),
		})
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *PeriodRegisteredMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PeriodRegisteredMessageFromJSON creates a message from JSON bytes
func PeriodRegisteredMessageFromJSON(data []byte) (*PeriodRegisteredMessage, error) {
	var msg PeriodRegisteredMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
