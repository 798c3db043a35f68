package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"giftledger/internal/core"
	"giftledger/internal/ledger"
	applog "giftledger/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	status, err := ParseStatusParam(r.URL.Query())
	if err != nil {
		http.Error(w, userMessage(err), http.StatusBadRequest)
		return
	}

	s.render(w, r, http.StatusOK, "index.html", s.buildPageData(status))
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	if err := r.ParseForm(); err != nil {
		NewHTMXResponse().Status(http.StatusBadRequest).ErrorHTML("요청 형식이 올바르지 않습니다").Write(w)
		return
	}

	in, err := ParseEntryForm(r.PostForm)
	if err == nil {
		var entry core.Entry
		entry, err = s.ledger.Add(ctx, in)
		if err == nil {
			s.respondChanged(w, r, string(ledger.OpAdded), "상품권이 추가되었습니다: "+entry.Text+" "+core.FormatWon(entry.Amount))
			return
		}
	}

	if errors.Is(err, ledger.ErrPersistence) {
		logger.ErrorContext(ctx, "Entry add failed", applog.NewFields().WithOperation(applog.OpAdd).WithError(err).ToSlice()...)
		NewHTMXResponse().Status(http.StatusInternalServerError).
			TriggerErrorNotification(userMessage(err)).ErrorHTML(userMessage(err)).Write(w)
		return
	}
	NewHTMXResponse().Status(http.StatusUnprocessableEntity).
		TriggerErrorNotification(userMessage(err)).ErrorHTML(userMessage(err)).Write(w)
}

func (s *Server) handleToggleEntry(w http.ResponseWriter, r *http.Request) {
	s.mutateEntry(w, r, applog.OpToggle, string(ledger.OpToggled), false, s.ledger.Toggle)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	s.mutateEntry(w, r, applog.OpRemove, string(ledger.OpRemoved), true, s.ledger.Remove)
}

// mutateEntry runs an id-addressed ledger operation and maps its errors.
func (s *Server) mutateEntry(w http.ResponseWriter, r *http.Request, op, changeOp string, needConfirm bool, apply func(context.Context, int64) error) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	id, err := ParseEntryID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if needConfirm {
		if err := RequireConfirm(r.PostForm); err != nil {
			s.respondUnconfirmed(w, r, err, r.URL.Path, "이 항목을 삭제할까요?")
			return
		}
	}

	if err := apply(ctx, id); err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			logger.WarnContext(ctx, "Entry not found", applog.FieldOperation, op, applog.FieldEntryID, id)
			s.respondError(w, http.StatusNotFound, err)
		default:
			logger.ErrorContext(ctx, "Entry update failed",
				applog.NewFields().WithOperation(op).WithError(err).ToSlice()...)
			s.respondError(w, http.StatusInternalServerError, err)
		}
		return
	}

	logger.InfoContext(ctx, "Entry updated", applog.FieldOperation, op, applog.FieldEntryID, id)
	s.respondChanged(w, r, changeOp, "")
}

func (s *Server) handleClearEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := RequireConfirm(r.PostForm); err != nil {
		s.respondUnconfirmed(w, r, err, r.URL.Path, fmt.Sprintf("모든 항목 %d건을 삭제할까요?", len(s.ledger.Entries())))
		return
	}

	if err := s.ledger.ClearAll(ctx); err != nil {
		logger.ErrorContext(ctx, "Ledger clear failed",
			applog.NewFields().WithOperation(applog.OpClear).WithError(err).ToSlice()...)
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respondChanged(w, r, string(ledger.OpCleared), "모든 항목이 삭제되었습니다")
}

func (s *Server) handleAPIEntries(w http.ResponseWriter, r *http.Request) {
	status, err := ParseStatusParam(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries := core.FilterByStatus(s.ledger.Entries(), status)
	writeJSON(w, http.StatusOK, struct {
		Status  core.Status  `json:"status"`
		Count   int          `json:"count"`
		Entries []core.Entry `json:"entries"`
	}{status, len(entries), entries})
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	status, err := ParseStatusParam(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, core.Summarize(core.FilterByStatus(s.ledger.Entries(), status)))
}

// respondChanged re-renders the ledger fragment for htmx callers and
// redirects plain form posts back to the list they came from.
func (s *Server) respondChanged(w http.ResponseWriter, r *http.Request, op, message string) {
	status, err := ParseStatusParam(r.PostForm)
	if err != nil {
		status = core.StatusAll
	}

	if !IsHTMXRequest(r) {
		http.Redirect(w, r, "/?"+url.Values{"status": {string(status)}}.Encode(), http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	if s.templates != nil {
		if err := s.templates.ExecuteTemplate(&buf, "ledger", s.buildPageData(status)); err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Ledger fragment render failed",
				applog.NewFields().WithOperation(applog.OpRender).WithError(err).ToSlice()...)
		}
	}
	resp := NewHTMXResponse().TriggerLedgerChanged(op, len(s.ledger.Entries())).Body(buf.Bytes())
	if message != "" {
		resp.TriggerSuccessNotification(message)
	}
	resp.Write(w)
}

// respondUnconfirmed answers a destructive POST that lacks confirm=yes.
// htmx callers get 400; plain form posts get a page asking again, whose
// form resubmits with confirm=yes.
func (s *Server) respondUnconfirmed(w http.ResponseWriter, r *http.Request, err error, action, question string) {
	if IsHTMXRequest(r) || s.templates == nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	status, perr := ParseStatusParam(r.PostForm)
	if perr != nil {
		status = core.StatusAll
	}
	s.render(w, r, http.StatusOK, "confirm.html", confirmData{
		Action:   action,
		Question: question,
		Status:   status,
	})
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	NewHTMXResponse().Status(status).TriggerErrorNotification(userMessage(err)).ErrorHTML(userMessage(err)).Write(w)
}

// render executes a template into a buffer so a failure can still become a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.NewFields().WithOperation(applog.OpRender).WithError(err).ToSlice()...)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
