package http

import (
	"errors"
	"strings"

	"giftledger/internal/core"
	"giftledger/internal/ledger"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

var userMessages = []struct {
	err error
	msg string
}{
	{core.ErrEmptyText, "구입처를 입력하세요"},
	{core.ErrEmptyDepartment, "백화점을 선택하세요"},
	{core.ErrInvalidCategory, "구분을 선택하세요 (지류 또는 모바일)"},
	{core.ErrInvalidMonth, "월은 1부터 12 사이여야 합니다"},
	{core.ErrInvalidAmount, "금액이 올바르지 않습니다"},
	{core.ErrAmountTooLarge, "금액은 1조원 이하여야 합니다"},
	{core.ErrTextTooLong, "구입처는 200자 이하여야 합니다"},
	{core.ErrEmptyCard, "카드를 선택하세요"},
	{core.ErrInvalidDate, "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)"},
	{core.ErrInvalidTime, "시간 형식이 올바르지 않습니다 (HH:MM)"},
	{core.ErrInvalidID, "잘못된 항목 번호입니다"},
	{core.ErrInvalidStatus, "상태 필터는 all, active, completed 중 하나입니다"},
	{ledger.ErrNotFound, "항목을 찾을 수 없습니다"},
	{ledger.ErrPersistence, "저장에 실패했습니다"},
	{errNotConfirmed, "삭제를 확인해 주세요"},
}

// userMessage maps a handler error to the text shown to the user.
func userMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "입력값이 올바르지 않습니다"
}

// pageData feeds index.html and the ledger fragment.
type pageData struct {
	Status     core.Status
	Statuses   []core.Status
	TotalCount int
	Entries    []core.Entry
	Summary    core.Summary
	Overall    int64
	Active     int64
	Completed  int64
	Form       formData
	Error      string
}

// confirmData feeds confirm.html, the no-script confirmation step.
type confirmData struct {
	Action   string
	Question string
	Status   core.Status
}

type formData struct {
	Defaults       core.EntryInput
	PurchasePlaces []string
	Departments    []string
	Categories     []string
	Months         []string
	AmountPresets  []core.AmountPreset
	Cards          []string
}

// buildPageData runs the aggregations over the ledger's current entries.
// Summary covers the filtered view; the three totals always cover everything.
func (s *Server) buildPageData(status core.Status) pageData {
	all := s.ledger.Entries()
	visible := core.FilterByStatus(all, status)
	return pageData{
		Status:     status,
		Statuses:   []core.Status{core.StatusAll, core.StatusActive, core.StatusCompleted},
		TotalCount: len(all),
		Entries:    visible,
		Summary:    core.Summarize(visible),
		Overall:    core.SumAmount(all),
		Active:     core.SumAmount(core.FilterByStatus(all, core.StatusActive)),
		Completed:  core.SumAmount(core.FilterByStatus(all, core.StatusCompleted)),
		Form: formData{
			Defaults:       core.DefaultInput(s.now()),
			PurchasePlaces: core.PurchasePlaces,
			Departments:    core.Departments,
			Categories:     core.Categories,
			Months:         core.Months(),
			AmountPresets:  core.AmountPresets,
			Cards:          core.Cards,
		},
	}
}
