package core

import (
	"strconv"
	"time"
)

// AmountPreset is a selectable amount with its display label.
type AmountPreset struct {
	Value int64
	Label string
}

// Choices offered by the add form.
var (
	PurchasePlaces = []string{"지마켓", "국민카드", "삼성카드", "신한카드"}
	Departments    = []string{"롯데백화점", "현대백화점", "신세계백화점", "갤러리아백화점", "홈플러스"}
	Categories     = []string{CategoryPaper, CategoryMobile}
	AmountPresets  = []AmountPreset{
		{Value: 500000, Label: "50만원"},
		{Value: 1000000, Label: "100만원"},
	}
	Cards = []string{"신한카드", "삼성카드", "현대카드", "롯데카드", "KB국민카드", "우리카드", "하나카드", "기타"}
)

// Months returns "1".."12".
func Months() []string {
	out := make([]string, 12)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// DefaultInput returns the values the add form starts with at time now.
func DefaultInput(now time.Time) EntryInput {
	return EntryInput{
		Text:       PurchasePlaces[0],
		Department: Departments[0],
		Category:   CategoryPaper,
		Month:      strconv.Itoa(int(now.Month())),
		Amount:     AmountPresets[0].Value,
		Card:       Cards[0],
		Date:       now.Format(dateLayout),
		Time:       now.Format(timeLayout),
	}
}
