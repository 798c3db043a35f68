package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"giftledger/internal/core"
)

func TestParseEntryForm(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		wantAmount int64
		wantErr    error
	}{
		{"plain", "500000", 500000, nil},
		{"separators and unit", "1,000,000원", 1000000, nil},
		{"zero", "0", 0, nil},
		{"empty", "", 0, core.ErrInvalidAmount},
		{"decimal", "1.5", 0, core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{
				"text":   {"  지마켓\x00 "},
				"amount": {tt.amount},
				"month":  {" 3 "},
			}
			in, err := ParseEntryForm(form)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if in.Amount != tt.wantAmount {
				t.Fatalf("amount = %d, want %d", in.Amount, tt.wantAmount)
			}
			if in.Text != "지마켓" || in.Month != "3" {
				t.Fatalf("fields not sanitized: %+v", in)
			}
		})
	}
}

func TestRequireConfirm(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"yes", true},
		{"YES", true},
		{" yes ", true},
		{"", false},
		{"no", false},
		{"true", false},
	}
	for _, tt := range tests {
		err := RequireConfirm(url.Values{"confirm": {tt.value}})
		if (err == nil) != tt.ok {
			t.Errorf("RequireConfirm(%q) = %v, want ok=%v", tt.value, err, tt.ok)
		}
	}
}

func TestParseEntryID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1709283600000", 1709283600000, false},
		{"0", 0, true},
		{"-4", 0, true},
		{"x", 0, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/entries/"+tt.raw+"/toggle", nil)
		r.SetPathValue("id", tt.raw)
		got, err := ParseEntryID(r)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseEntryID(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := userMessage(core.ErrInvalidCategory); got != "구분을 선택하세요 (지류 또는 모바일)" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := userMessage(core.ErrTextTooLong); got != "구입처는 200자 이하여야 합니다" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := userMessage(core.ErrAmountTooLarge); got != "금액은 1조원 이하여야 합니다" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := userMessage(errors.New("other")); got != "입력값이 올바르지 않습니다" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
