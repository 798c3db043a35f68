package core

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Status selects entries by redemption state.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// GroupKey names the Entry field a grouped total partitions on.
type GroupKey string

const (
	GroupByMonth      GroupKey = "month"
	GroupByDepartment GroupKey = "department"
	GroupByCard       GroupKey = "card"
)

var ErrInvalidStatus = errors.New("invalid status")

// GroupTotal is the summed amount of one partition.
type GroupTotal struct {
	Key    string `json:"key"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

// Summary is the full set of derived views over a list of entries.
type Summary struct {
	Count        int          `json:"count"`
	Total        int64        `json:"total"`
	ByMonth      []GroupTotal `json:"by_month"`
	ByDepartment []GroupTotal `json:"by_department"`
	ByCard       []GroupTotal `json:"by_card"`
}

// ParseStatus maps a query value to a Status; empty means all.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", ErrInvalidStatus
}

// FilterByStatus keeps the entries matching status in input order.
// The result never aliases the input slice.
func FilterByStatus(entries []Entry, status Status) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		switch status {
		case StatusActive:
			if e.Completed {
				continue
			}
		case StatusCompleted:
			if !e.Completed {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func SumAmount(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

// GroupTotals sums amounts per distinct value of key. Month groups are
// ordered by numeric month; department and card groups keep first-seen order.
func GroupTotals(entries []Entry, key GroupKey) []GroupTotal {
	var field func(Entry) string
	switch key {
	case GroupByMonth:
		field = func(e Entry) string { return e.Month }
	case GroupByDepartment:
		field = func(e Entry) string { return e.Department }
	case GroupByCard:
		field = func(e Entry) string { return e.Card }
	default:
		return nil
	}

	groups := groupBy(entries, field)
	if key == GroupByMonth {
		sort.SliceStable(groups, func(i, j int) bool {
			return monthRank(groups[i].Key) < monthRank(groups[j].Key)
		})
	}
	return groups
}

func groupBy(entries []Entry, field func(Entry) string) []GroupTotal {
	index := make(map[string]int)
	out := make([]GroupTotal, 0)
	for _, e := range entries {
		k := field(e)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, GroupTotal{Key: k})
		}
		out[i].Amount += e.Amount
		out[i].Count++
	}
	return out
}

// monthRank orders unparsable months after every real month.
func monthRank(s string) int {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1 << 30
	}
	return m
}

// Summarize computes the total and all grouped views.
func Summarize(entries []Entry) Summary {
	return Summary{
		Count:        len(entries),
		Total:        SumAmount(entries),
		ByMonth:      GroupTotals(entries, GroupByMonth),
		ByDepartment: GroupTotals(entries, GroupByDepartment),
		ByCard:       GroupTotals(entries, GroupByCard),
	}
}
