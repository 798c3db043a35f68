// Package http provides HTTP server and handler implementations.
//
// This file turns form and query values into ledger inputs.

package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"giftledger/internal/core"
)

var errNotConfirmed = errors.New("confirmation required")

// ParseEntryForm builds an EntryInput from the add form. Amount accepts
// "500000", "500,000" or "500,000원". Validation is left to the ledger.
func ParseEntryForm(form url.Values) (core.EntryInput, error) {
	amount, err := core.ParseWon(form.Get("amount"))
	if err != nil {
		return core.EntryInput{}, err
	}
	return core.EntryInput{
		Text:       sanitizeInput(form.Get("text")),
		Department: sanitizeInput(form.Get("department")),
		Category:   sanitizeInput(form.Get("category")),
		Month:      sanitizeInput(form.Get("month")),
		Amount:     amount,
		Card:       sanitizeInput(form.Get("card")),
		Date:       sanitizeInput(form.Get("date")),
		Time:       sanitizeInput(form.Get("time")),
	}, nil
}

// ParseStatusParam reads ?status= (or the status form field on POSTs).
func ParseStatusParam(values url.Values) (core.Status, error) {
	return core.ParseStatus(values.Get("status"))
}

// ParseEntryID reads the {id} path value.
func ParseEntryID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ErrInvalidID
	}
	return id, nil
}

// RequireConfirm enforces the explicit confirm=yes a destructive form must send.
func RequireConfirm(form url.Values) error {
	if strings.EqualFold(strings.TrimSpace(form.Get("confirm")), "yes") {
		return nil
	}
	return errNotConfirmed
}

// IsHTMXRequest checks if the request is an HTMX request.
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
