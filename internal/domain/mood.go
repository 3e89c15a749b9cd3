package domain

import (
	"encoding/json"
	"time"
)

// MoodEntry is one mood record as shown to the user.
type MoodEntry struct {
	UID         *int      `json:"uid"`
	Date        time.Time `json:"date"`
	Score       int       `json:"score"`
	Description string    `json:"description"`
	Emotions    string    `json:"emotions"`
}

type moodWire struct {
	UID         *int      `json:"uid"`
	Date        Timestamp `json:"date"`
	Score       int       `json:"score"`
	Description string    `json:"description"`
	Emotions    string    `json:"emotions"`
}

// ParseMoods decodes the body of GET /api/moods/get.
func ParseMoods(body []byte) ([]MoodEntry, error) {
	var wire []moodWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, err
	}
	out := make([]MoodEntry, 0, len(wire))
	for _, m := range wire {
		out = append(out, MoodEntry{
			UID:         m.UID,
			Date:        m.Date.Time(),
			Score:       m.Score,
			Description: m.Description,
			Emotions:    m.Emotions,
		})
	}
	return out, nil
}
