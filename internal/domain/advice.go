package domain

import (
	"encoding/json"
	"time"
)

// AdviceEntry is one piece of generated advice.
type AdviceEntry struct {
	UID  *int      `json:"uid"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

type adviceWire struct {
	UID  *int      `json:"uid"`
	Date Timestamp `json:"date"`
	Text string    `json:"text"`
}

func (a adviceWire) entry() AdviceEntry {
	return AdviceEntry{UID: a.UID, Date: a.Date.Time(), Text: a.Text}
}

// ParseAdvice decodes the body of GET /api/advice.
func ParseAdvice(body []byte) ([]AdviceEntry, error) {
	var wire []adviceWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, err
	}
	out := make([]AdviceEntry, 0, len(wire))
	for _, a := range wire {
		out = append(out, a.entry())
	}
	return out, nil
}

// ParseAdviceEntry decodes the single-object body of GET /api/advice?date=.
func ParseAdviceEntry(body []byte) (AdviceEntry, error) {
	var wire adviceWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return AdviceEntry{}, err
	}
	return wire.entry(), nil
}
