package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validInput() EntryInput {
	return EntryInput{
		Text:       "지마켓",
		Department: "롯데백화점",
		Category:   CategoryPaper,
		Month:      "3",
		Amount:     500000,
		Card:       "신한카드",
		Date:       "2024-03-01",
		Time:       "09:00",
	}
}

func TestEntryInputValidate(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := validInput()
	zero.Amount = 0
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be allowed, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*EntryInput)
		want   error
	}{
		{"empty text", func(in *EntryInput) { in.Text = "  " }, ErrEmptyText},
		{"empty department", func(in *EntryInput) { in.Department = "" }, ErrEmptyDepartment},
		{"placeholder category", func(in *EntryInput) { in.Category = "구분" }, ErrInvalidCategory},
		{"month zero", func(in *EntryInput) { in.Month = "0" }, ErrInvalidMonth},
		{"month thirteen", func(in *EntryInput) { in.Month = "13" }, ErrInvalidMonth},
		{"month text", func(in *EntryInput) { in.Month = "march" }, ErrInvalidMonth},
		{"negative amount", func(in *EntryInput) { in.Amount = -1 }, ErrInvalidAmount},
		{"amount over limit", func(in *EntryInput) { in.Amount = MaxAmount + 1 }, ErrAmountTooLarge},
		{"text over limit", func(in *EntryInput) { in.Text = strings.Repeat("가", MaxTextLength+1) }, ErrTextTooLong},
		{"empty card", func(in *EntryInput) { in.Card = "" }, ErrEmptyCard},
		{"bad date", func(in *EntryInput) { in.Date = "2024/03/01" }, ErrInvalidDate},
		{"bad time", func(in *EntryInput) { in.Time = "9am" }, ErrInvalidTime},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		if err := in.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNewEntryDefaultsToActive(t *testing.T) {
	e := NewEntry(42, validInput())
	if e.ID != 42 || e.Completed {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Input() != validInput() {
		t.Fatalf("input round trip mismatch: %+v", e.Input())
	}
}

func TestEntryValidateRequiresID(t *testing.T) {
	e := NewEntry(0, validInput())
	if err := e.Validate(); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	e.ID = 1
	if err := e.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestDefaultInputIsValid(t *testing.T) {
	now := time.Date(2024, time.November, 5, 7, 3, 0, 0, time.UTC)
	in := DefaultInput(now)
	if err := in.Validate(); err != nil {
		t.Fatalf("default input invalid: %v", err)
	}
	if in.Month != "11" || in.Date != "2024-11-05" || in.Time != "07:03" {
		t.Fatalf("unexpected defaults: %+v", in)
	}
	if in.Amount != 500000 || in.Card != "신한카드" || in.Text != "지마켓" {
		t.Fatalf("unexpected defaults: %+v", in)
	}
}

func TestMonths(t *testing.T) {
	m := Months()
	if len(m) != 12 || m[0] != "1" || m[11] != "12" {
		t.Fatalf("unexpected months: %v", m)
	}
}

func TestEntryInputValidateLimitsAreInclusive(t *testing.T) {
	in := validInput()
	in.Amount = MaxAmount
	in.Text = strings.Repeat("상", MaxTextLength)
	if err := in.Validate(); err != nil {
		t.Fatalf("values at the limit should pass, got %v", err)
	}
}

func TestNewEntryCanonicalMonth(t *testing.T) {
	for _, raw := range []string{"3", "03", "+3", " 3 ", "003"} {
		in := validInput()
		in.Month = raw
		if err := in.Validate(); err != nil {
			t.Fatalf("%q: expected valid, got %v", raw, err)
		}
		if got := NewEntry(1, in).Month; got != "3" {
			t.Fatalf("%q: month = %q, want \"3\"", raw, got)
		}
	}
	if _, err := CanonicalMonth("13"); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}
