package redemption

import (
	"Rewards/models"
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func pending() *models.RedemptionRequest {
	return &models.RedemptionRequest{ID: 1, Status: string(StatusPending), PointsSpent: 300}
}

func TestApply_Completed(t *testing.T) {
	req := pending()
	err := Apply(req, Update{NewStatus: StatusCompleted, ActivationCode: " CODE-1 ", Instructions: "redeem at /activate"}, now, 0)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if req.Status != "completed" || req.ActivationCode != "CODE-1" || req.Instructions != "redeem at /activate" {
		t.Fatalf("unexpected request %+v", req)
	}
	if !req.CompletedAt.Equal(now) {
		t.Fatalf("completed_at = %v", req.CompletedAt)
	}
	if want := now.Add(30 * 24 * time.Hour); !req.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", req.ExpiresAt, want)
	}
}

func TestApply_CompletedRequiresCode(t *testing.T) {
	req := pending()
	err := Apply(req, Update{NewStatus: StatusCompleted, ActivationCode: "   "}, now, 0)
	if !errors.Is(err, ErrActivationCodeRequired) {
		t.Fatalf("expected ErrActivationCodeRequired, got %v", err)
	}
	if req.Status != "pending" || req.CompletedAt != nil || req.ExpiresAt != nil {
		t.Fatalf("request mutated on failure: %+v", req)
	}
}

func TestApply_FailedAndCancelled(t *testing.T) {
	for _, st := range []Status{StatusFailed, StatusCancelled} {
		req := pending()
		if err := Apply(req, Update{NewStatus: st, ActivationCode: "ignored"}, now, 0); err != nil {
			t.Fatalf("%s: %v", st, err)
		}
		if req.Status != string(st) || req.CompletedAt == nil {
			t.Fatalf("%s: unexpected %+v", st, req)
		}
		if req.ActivationCode != "" || req.ExpiresAt != nil {
			t.Fatalf("%s: terminal failure must not carry activation code: %+v", st, req)
		}
	}
}

func TestApply_TerminalIsImmutable(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusFailed, StatusCancelled} {
		for _, to := range []Status{StatusCompleted, StatusFailed, StatusCancelled, StatusPending} {
			req := &models.RedemptionRequest{Status: string(from)}
			err := Apply(req, Update{NewStatus: to, ActivationCode: "X"}, now, 0)
			if !errors.Is(err, ErrTerminalState) {
				t.Errorf("%s -> %s: expected ErrTerminalState, got %v", from, to, err)
			}
			if req.Status != string(from) {
				t.Errorf("%s -> %s: status changed", from, to)
			}
		}
	}
}

func TestApply_BackToPending(t *testing.T) {
	req := pending()
	if err := Apply(req, Update{NewStatus: StatusPending}, now, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestApply_CustomValidity(t *testing.T) {
	req := pending()
	if err := Apply(req, Update{NewStatus: StatusCompleted, ActivationCode: "A"}, now, 7*24*time.Hour); err != nil {
		t.Fatal(err)
	}
	if want := now.Add(7 * 24 * time.Hour); !req.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", req.ExpiresAt, want)
	}
}

func TestParseStatus(t *testing.T) {
	if st, err := ParseStatus(" Completed "); err != nil || st != StatusCompleted {
		t.Fatalf("got %q %v", st, err)
	}
	if _, err := ParseStatus("approved"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
