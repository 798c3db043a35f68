package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	CategoryPaper  = "지류"
	CategoryMobile = "모바일"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

const (
	// MaxTextLength is counted in characters, not bytes.
	MaxTextLength = 200
	// MaxAmount bounds one entry so ledger totals stay within int64.
	MaxAmount int64 = 1_000_000_000_000
)

type (
	// Entry is one recorded gift-card purchase. Field names are the persisted
	// JSON layout and must not change.
	Entry struct {
		ID         int64  `json:"id"`
		Text       string `json:"text"` // Purchase place
		Completed  bool   `json:"completed"`
		Department string `json:"department"`
		Category   string `json:"category"`
		Month      string `json:"month"` // "1".."12"
		Amount     int64  `json:"amount"`
		Card       string `json:"card"`
		Date       string `json:"date"` // YYYY-MM-DD
		Time       string `json:"time"` // HH:MM
	}

	// EntryInput is what the add form hands to the store: every Entry field
	// except the id and the redemption status.
	EntryInput struct {
		Text       string `json:"text"`
		Department string `json:"department"`
		Category   string `json:"category"`
		Month      string `json:"month"`
		Amount     int64  `json:"amount"`
		Card       string `json:"card"`
		Date       string `json:"date"`
		Time       string `json:"time"`
	}
)

var (
	ErrEmptyText       = errors.New("empty purchase place")
	ErrEmptyDepartment = errors.New("empty department")
	ErrEmptyCard       = errors.New("empty card")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTime     = errors.New("invalid time")
	ErrInvalidID       = errors.New("invalid id")
	ErrTextTooLong     = errors.New("purchase place too long")
	ErrAmountTooLarge  = errors.New("amount too large")
)

// MonthNumber parses a month string into 1..12.
func MonthNumber(s string) (int, error) {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || m < 1 || m > 12 {
		return 0, ErrInvalidMonth
	}
	return m, nil
}

// CanonicalMonth rewrites spellings like "03" or "+3" as "3".
func CanonicalMonth(s string) (string, error) {
	m, err := MonthNumber(s)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(m), nil
}

func (in EntryInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Text)) > MaxTextLength {
		return ErrTextTooLong
	}
	if strings.TrimSpace(in.Department) == "" {
		return ErrEmptyDepartment
	}
	if !IsCategory(in.Category) {
		return ErrInvalidCategory
	}
	if _, err := MonthNumber(in.Month); err != nil {
		return err
	}
	if in.Amount < 0 {
		return ErrInvalidAmount
	}
	if in.Amount > MaxAmount {
		return ErrAmountTooLarge
	}
	if strings.TrimSpace(in.Card) == "" {
		return ErrEmptyCard
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse(timeLayout, in.Time); err != nil {
		return ErrInvalidTime
	}
	return nil
}

// NewEntry builds an unredeemed entry from validated input. The month is
// stored in canonical form so one calendar month is one group.
func NewEntry(id int64, in EntryInput) Entry {
	month := strings.TrimSpace(in.Month)
	if m, err := CanonicalMonth(month); err == nil {
		month = m
	}
	return Entry{
		ID:         id,
		Text:       strings.TrimSpace(in.Text),
		Completed:  false,
		Department: strings.TrimSpace(in.Department),
		Category:   in.Category,
		Month:      month,
		Amount:     in.Amount,
		Card:       strings.TrimSpace(in.Card),
		Date:       in.Date,
		Time:       in.Time,
	}
}

// Input strips the store-owned fields.
func (e Entry) Input() EntryInput {
	return EntryInput{
		Text:       e.Text,
		Department: e.Department,
		Category:   e.Category,
		Month:      e.Month,
		Amount:     e.Amount,
		Card:       e.Card,
		Date:       e.Date,
		Time:       e.Time,
	}
}

// Validate checks a persisted entry, used when loading a snapshot.
func (e Entry) Validate() error {
	if e.ID <= 0 {
		return ErrInvalidID
	}
	return e.Input().Validate()
}
