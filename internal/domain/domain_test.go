package domain

import (
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{in: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024-01-01T08:30:00Z", want: time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)},
		{in: "2024-01-01T08:30:00.5+02:00", want: time.Date(2024, 1, 1, 6, 30, 0, 5e8, time.UTC)},
		{in: "2024-01-01T08:30:00", want: time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseTimestamp(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatalf("expected error for unparseable timestamp")
	}
}

func TestParseAdvice(t *testing.T) {
	entries, err := ParseAdvice([]byte(`[{"uid":1,"date":"2024-01-01","text":"ok","user_id":3}]`))
	if err != nil {
		t.Fatalf("ParseAdvice: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len=%d want=1", len(entries))
	}
	e := entries[0]
	if e.UID == nil || *e.UID != 1 || e.Text != "ok" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if !e.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Date=%v", e.Date)
	}
}

func TestParseMoodsAcceptsEpochMillis(t *testing.T) {
	entries, err := ParseMoods([]byte(`[{"uid":null,"date":1704067200000,"score":4,"description":"","emotions":"calm"}]`))
	if err != nil {
		t.Fatalf("ParseMoods: %v", err)
	}
	if entries[0].UID != nil {
		t.Fatalf("expected nil UID")
	}
	if !entries[0].Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Date=%v", entries[0].Date)
	}
}

func TestParseMoodsNullBody(t *testing.T) {
	entries, err := ParseMoods([]byte(`null`))
	if err != nil {
		t.Fatalf("ParseMoods: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", entries)
	}
}

func TestParseRejectsBadShapes(t *testing.T) {
	if _, err := ParseMoods([]byte(`{"uid":1}`)); err == nil {
		t.Fatalf("expected error for object body")
	}
	if _, err := ParseAdvice([]byte(`[{"date":"soon"}]`)); err == nil {
		t.Fatalf("expected error for bad date")
	}
	if _, err := ParseUser([]byte(`[`)); err == nil {
		t.Fatalf("expected error for truncated body")
	}
}

func TestParseUser(t *testing.T) {
	u, err := ParseUser([]byte(`{"uid":1,"username":"ann","email":"ann@example.com","created_at":"2025-05-01T10:00:00Z","updated_at":"2025-05-02T10:00:00Z","password_hash":"x"}`))
	if err != nil {
		t.Fatalf("ParseUser: %v", err)
	}
	if u.Username != "ann" || u.CreatedAt.Day() != 1 || u.UpdatedAt.Day() != 2 {
		t.Fatalf("unexpected user: %+v", u)
	}
}
