package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pswandaru/auditguard/internal/audit"
	"github.com/pswandaru/auditguard/internal/jobs"
	"github.com/pswandaru/auditguard/internal/logger"
	"github.com/pswandaru/auditguard/internal/store"
)

// stubPublisher records published jobs instead of running them.
type stubPublisher struct {
	published []*jobs.AssessTransactionJob
	err       error
}

func (p *stubPublisher) Publish(ctx context.Context, job *jobs.AssessTransactionJob) error {
	if p.err != nil {
		return p.err
	}
	if job.JobID == "" {
		job.JobID = "job-1"
	}
	job.Status = jobs.StatusQueued
	p.published = append(p.published, job)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func testStore() *store.Store {
	st := store.New()
	st.Seed([]audit.Transaction{
		{ID: "t1", Title: "Entertainment", Category: "Entertainment", Amount: 50_000_000, Status: audit.StatusPending},
		{ID: "t2", Title: "Supplies", Category: "Office Supplies", Amount: 3_250_000, Status: audit.StatusApproved},
	})
	return st
}

func newTransactionsHandler(st *store.Store, pub jobs.Publisher) *TransactionsHandler {
	return NewTransactionsHandler(st, pub, logger.NewWithWriter(&bytes.Buffer{}))
}

func TestListTransactions(t *testing.T) {
	h := newTransactionsHandler(testStore(), &stubPublisher{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []audit.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t2" {
		t.Errorf("body = %+v", got)
	}
}

func TestGetTransaction(t *testing.T) {
	h := newTransactionsHandler(testStore(), &stubPublisher{})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/transactions/t1", nil), "t1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/transactions/ghost", nil), "ghost")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown id = %d, want 404", rec.Code)
	}
}

func TestAssessEnqueuesJob(t *testing.T) {
	pub := &stubPublisher{}
	h := newTransactionsHandler(testStore(), pub)

	rec := httptest.NewRecorder()
	h.Assess(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/t1/assess", nil), "t1")

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if len(pub.published) != 1 || pub.published[0].TransactionID != "t1" {
		t.Errorf("published = %+v", pub.published)
	}

	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["job_id"] == "" {
		t.Error("response missing job_id")
	}
}

func TestAssessConflictWhileInFlight(t *testing.T) {
	pub := &stubPublisher{err: jobs.ErrAlreadyInFlight}
	h := newTransactionsHandler(testStore(), pub)

	rec := httptest.NewRecorder()
	h.Assess(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/t1/assess", nil), "t1")

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestAssessUnknownTransaction(t *testing.T) {
	pub := &stubPublisher{}
	h := newTransactionsHandler(testStore(), pub)

	rec := httptest.NewRecorder()
	h.Assess(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/ghost/assess", nil), "ghost")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if len(pub.published) != 0 {
		t.Error("job published for unknown transaction")
	}
}

func decideRequest(decision string) *http.Request {
	body := strings.NewReader(`{"decision":"` + decision + `"}`)
	return httptest.NewRequest(http.MethodPost, "/api/transactions/t1/decision", body)
}

func TestDecideApprovesPending(t *testing.T) {
	st := testStore()
	h := newTransactionsHandler(st, &stubPublisher{})

	rec := httptest.NewRecorder()
	h.Decide(rec, decideRequest("APPROVED"), "t1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got, _ := st.Get("t1")
	if got.Status != audit.StatusApproved {
		t.Errorf("stored status = %s, want APPROVED", got.Status)
	}
}

func TestDecideIsIdempotentForSameDecision(t *testing.T) {
	st := testStore()
	h := newTransactionsHandler(st, &stubPublisher{})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Decide(rec, decideRequest("APPROVED"), "t1")
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d status = %d, want 200", i+1, rec.Code)
		}
	}

	got, _ := st.Get("t1")
	if got.Status != audit.StatusApproved {
		t.Errorf("stored status = %s, want APPROVED", got.Status)
	}
}

func TestDecideConflictOnDecidedTransaction(t *testing.T) {
	st := testStore()
	h := newTransactionsHandler(st, &stubPublisher{})

	// t2 is already APPROVED in the fixture.
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"decision":"REJECTED"}`)
	h.Decide(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/t2/decision", body), "t2")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	got, _ := st.Get("t2")
	if got.Status != audit.StatusApproved {
		t.Errorf("stored status changed to %s", got.Status)
	}
}

func TestDecideRejectsInvalidDecision(t *testing.T) {
	h := newTransactionsHandler(testStore(), &stubPublisher{})

	rec := httptest.NewRecorder()
	h.Decide(rec, decideRequest("MAYBE"), "t1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Decide(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/t1/decision", strings.NewReader("not json")), "t1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for bad body = %d, want 400", rec.Code)
	}
}

func TestDashboardSummary(t *testing.T) {
	st := testStore()
	h := NewDashboardHandler(st, logger.NewWithWriter(&bytes.Buffer{}))

	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var sum store.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if sum.Pending != 1 || sum.Approved != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.TotalAmount != 53_250_000 {
		t.Errorf("TotalAmount = %d", sum.TotalAmount)
	}
}

func TestReportEndpoints(t *testing.T) {
	st := testStore()
	h := NewReportsHandler(st, logger.NewWithWriter(&bytes.Buffer{}))

	rec := httptest.NewRecorder()
	h.XLSX(rec, httptest.NewRequest(http.MethodGet, "/api/reports/audit.xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("xlsx status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheet") {
		t.Errorf("xlsx content type = %q", ct)
	}

	rec = httptest.NewRecorder()
	h.PDF(rec, httptest.NewRequest(http.MethodGet, "/api/reports/audit.pdf", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("pdf status = %d, want 200", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("pdf body missing header")
	}
}
