package http_test

import (
	"encoding/json"
	"testing"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
)

func Test_LoanStatusProgression(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	env.seedAdmin("admin.loans@loanapp.com", "Admin#2025!", domain.DepartmentAll)
	adminTok := env.login("admin.loans@loanapp.com", "Admin#2025!")

	w := env.do("POST", "/api/auth/signup",
		`{"email":"borrower@example.com","password":"StrongP@ss1","is_borrower":true}`, "")
	if w.Code != 201 {
		t.Fatalf("borrower signup: %d %s", w.Code, w.Body.String())
	}
	var sr struct {
		Access string `json:"access"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &sr)

	w = env.do("POST", "/api/loans", `{"amount":1000,"purpose":"laptop"}`, sr.Access)
	if w.Code != 201 {
		t.Fatalf("apply loan: %d %s", w.Code, w.Body.String())
	}
	var app domain.LoanApplication
	if err := json.Unmarshal(w.Body.Bytes(), &app); err != nil || app.ID == "" {
		t.Fatalf("application parse: %v; body=%s", err, w.Body.String())
	}

	patch := func(status string) int {
		t.Helper()
		w := env.do("PATCH", "/api/admin/loans/"+app.ID, `{"status":"`+status+`"}`, adminTok)
		return w.Code
	}

	// pending applications cannot be disbursed outright
	if code := patch("disbursed"); code != 409 {
		t.Fatalf("pending->disbursed: want 409, got %d", code)
	}
	if code := patch("approved"); code != 200 {
		t.Fatalf("pending->approved: want 200, got %d", code)
	}
	// approved applications cannot swing back to rejected
	if code := patch("rejected"); code != 409 {
		t.Fatalf("approved->rejected: want 409, got %d", code)
	}
	if code := patch("disbursed"); code != 200 {
		t.Fatalf("approved->disbursed: want 200, got %d", code)
	}
	// disbursement is terminal; repeating it must not pay out twice
	if code := patch("disbursed"); code != 409 {
		t.Fatalf("disbursed->disbursed: want 409, got %d", code)
	}
	if code := patch("pending"); code != 409 {
		t.Fatalf("disbursed->pending: want 409, got %d", code)
	}

	w = env.do("GET", "/api/transactions", "", sr.Access)
	if w.Code != 200 {
		t.Fatalf("transactions: %d %s", w.Code, w.Body.String())
	}
	var tr struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &tr)
	if len(tr.Transactions) != 1 || tr.Transactions[0].Type != domain.TxDisbursement {
		t.Fatalf("want exactly one disbursement transaction, got %+v", tr.Transactions)
	}
}
