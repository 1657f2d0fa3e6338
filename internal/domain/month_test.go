package domain

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input     string
		expectErr bool
		want      string
	}{
		{input: "2024-01", want: "2024-01"},
		{input: "1999-12", want: "1999-12"},
		{input: "2024-13", expectErr: true},
		{input: "2024-1", expectErr: true},
		{input: "banana", expectErr: true},
		{input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMonth(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, m)
			}
		})
	}
}

func TestMonth_Next(t *testing.T) {
	m := Month{Year: 2023, Month: time.December}
	next := m.Next()
	if next.Year != 2024 || next.Month != time.January {
		t.Errorf("expected 2024-01, got %s", next)
	}

	if got := (Month{Year: 2024, Month: time.May}).Next(); got.String() != "2024-06" {
		t.Errorf("expected 2024-06, got %s", got)
	}
}

func TestMonth_Ordering(t *testing.T) {
	jan := Month{Year: 2024, Month: time.January}
	feb := Month{Year: 2024, Month: time.February}

	if !jan.Before(feb) || feb.Before(jan) {
		t.Error("january must sort before february")
	}
	if !feb.After(jan) {
		t.Error("february must be after january")
	}
	if jan.Before(jan) || jan.After(jan) {
		t.Error("a month is neither before nor after itself")
	}
}

func TestMonth_Contains(t *testing.T) {
	jan := Month{Year: 2024, Month: time.January}

	if !jan.Contains(NewDate(2024, time.January, 31)) {
		t.Error("expected january to contain 2024-01-31")
	}
	if jan.Contains(NewDate(2024, time.February, 1)) {
		t.Error("expected january to exclude 2024-02-01")
	}
	if jan.Contains(NewDate(2023, time.January, 15)) {
		t.Error("expected 2024 january to exclude 2023 dates")
	}
}

func TestMonthsBetween(t *testing.T) {
	jan := Month{Year: 2024, Month: time.January}
	if got := MonthsBetween(jan, jan); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := MonthsBetween(jan, Month{Year: 2024, Month: time.December}); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
	if got := MonthsBetween(jan, Month{Year: 2025, Month: time.February}); got != 14 {
		t.Errorf("expected 14, got %d", got)
	}
	if got := MonthsBetween(jan, Month{Year: 2023, Month: time.December}); got != 0 {
		t.Errorf("expected 0 for inverted range, got %d", got)
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-09" {
		t.Errorf("round trip failed: %s", d)
	}
	if d.YearMonth().String() != "2024-03" {
		t.Errorf("expected 2024-03, got %s", d.YearMonth())
	}

	if _, err := ParseDate("09/03/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}

	trimmed := DateOf(time.Date(2024, time.March, 9, 23, 59, 0, 0, time.UTC))
	if !trimmed.Equal(d.Time) {
		t.Errorf("expected time-of-day to be dropped, got %v", trimmed)
	}
}
