package mockapi

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// UserRecord is an account as the backend stores it.
type UserRecord struct {
	UID          int       `json:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MoodRecord mirrors the backend's mood row.
type MoodRecord struct {
	UID         int       `json:"uid"`
	Score       int       `json:"score"`
	Emotions    string    `json:"emotions"`
	Description string    `json:"description"`
	UserID      int       `json:"user_id"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AdviceRecord mirrors the backend's advice row.
type AdviceRecord struct {
	UID    int       `json:"uid"`
	UserID int       `json:"user_id"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// Fixtures is the in-memory data set served by the mock API.
type Fixtures struct {
	mu     sync.RWMutex
	users  map[int]UserRecord
	moods  []MoodRecord
	advice []AdviceRecord
	nextID int
}

// NewFixtures returns an empty data set.
func NewFixtures() *Fixtures {
	return &Fixtures{users: map[int]UserRecord{}}
}

// AddUser stores an account and returns its uid.
func (f *Fixtures) AddUser(username, email, passwordHash string, createdAt time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.users[f.nextID] = UserRecord{
		UID:          f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	return f.nextID
}

// AddMood stores a mood for userID.
func (f *Fixtures) AddMood(userID, score int, emotions, description string, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.moods = append(f.moods, MoodRecord{
		UID:         f.nextID,
		Score:       score,
		Emotions:    emotions,
		Description: description,
		UserID:      userID,
		Date:        date,
		CreatedAt:   date,
		UpdatedAt:   date,
	})
}

// AddAdvice stores advice for userID.
func (f *Fixtures) AddAdvice(userID int, text string, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.advice = append(f.advice, AdviceRecord{UID: f.nextID, UserID: userID, Text: text, Date: date})
}

// UserByID looks up an account by the token subject.
func (f *Fixtures) UserByID(id string) (UserRecord, bool) {
	uid, err := strconv.Atoi(id)
	if err != nil {
		return UserRecord{}, false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[uid]
	return u, ok
}

// UserByEmail looks up an account by email.
func (f *Fixtures) UserByEmail(email string) (UserRecord, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, true
		}
	}
	return UserRecord{}, false
}

// Moods returns the moods of userID, oldest first.
func (f *Fixtures) Moods(userID int) []MoodRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []MoodRecord{}
	for _, m := range f.moods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Advice returns the advice of userID, oldest first.
func (f *Fixtures) Advice(userID int) []AdviceRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []AdviceRecord{}
	for _, a := range f.advice {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// AdviceOn returns the advice of userID for the calendar day of date.
func (f *Fixtures) AdviceOn(userID int, date time.Time) (AdviceRecord, bool) {
	y, m, d := date.Date()
	for _, a := range f.Advice(userID) {
		ay, am, ad := a.Date.Date()
		if ay == y && am == m && ad == d {
			return a, true
		}
	}
	return AdviceRecord{}, false
}

// SeedDemo fills f with one demo account and a few days of data.
func SeedDemo(f *Fixtures, email, passwordHash string, today time.Time) int {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	uid := f.AddUser("demo", email, passwordHash, day.AddDate(0, -1, 0))
	f.AddMood(uid, 4, "calm, focused", "Good walk in the morning.", day.AddDate(0, 0, -2))
	f.AddMood(uid, 2, "tired", "Too many meetings.", day.AddDate(0, 0, -1))
	f.AddMood(uid, 3, "okay", "", day)
	f.AddAdvice(uid, "Keep the morning walks, they seem to help.", day.AddDate(0, 0, -2))
	f.AddAdvice(uid, "Block an hour with no meetings tomorrow.", day.AddDate(0, 0, -1))
	return uid
}
