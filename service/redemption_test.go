package service

import (
	"Rewards/internal/redemption"
	"Rewards/models"
	"Rewards/types"
	"context"
	"errors"
	"testing"
	"time"
)

func seedRedemption(t *testing.T, env *testEnv, userID uint64, points int64) *models.Subscription {
	t.Helper()
	ctx := context.Background()
	sub, err := env.subs.Add(ctx, &types.AddSubscriptionReq{Name: "Pro 月卡", PointsCost: 300})
	if err != nil {
		t.Fatalf("add subscription: %v", err)
	}
	if points > 0 {
		if _, err := env.points.RewardPoints(ctx, userID, points, models.TypeSystemCompensate, "seed", "", false); err != nil {
			t.Fatalf("seed points: %v", err)
		}
	}
	return sub
}

func TestRedemption_CompleteFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sub := seedRedemption(t, env, 10, 1000)

	req, err := env.redemption.Create(ctx, 10, sub.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != string(redemption.StatusPending) || req.PointsSpent != 300 {
		t.Fatalf("created: %+v", req)
	}
	if got := env.balance(t, 10); got != 700 {
		t.Fatalf("balance after redeem = %d", got)
	}

	// 缺少激活码时拒绝且不改动数据
	_, err = env.redemption.Update(ctx, &types.UpdateRedemptionReq{RequestID: req.ID, NewStatus: "completed", Instructions: "x"})
	if !errors.Is(err, redemption.ErrActivationCodeRequired) {
		t.Fatalf("expected activation code error, got %v", err)
	}
	var stored models.RedemptionRequest
	env.db.First(&stored, req.ID)
	if stored.Status != "pending" || stored.Instructions != "" {
		t.Fatalf("request mutated: %+v", stored)
	}

	done, err := env.redemption.Update(ctx, &types.UpdateRedemptionReq{RequestID: req.ID, NewStatus: "completed", ActivationCode: "ABC-123"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.CompletedAt == nil || done.ExpiresAt == nil {
		t.Fatalf("timestamps not set: %+v", done)
	}
	if d := done.ExpiresAt.Sub(*done.CompletedAt); d != 30*24*time.Hour {
		t.Fatalf("validity = %v", d)
	}

	_, err = env.redemption.Update(ctx, &types.UpdateRedemptionReq{RequestID: req.ID, NewStatus: "failed"})
	if !errors.Is(err, redemption.ErrTerminalState) {
		t.Fatalf("expected terminal state error, got %v", err)
	}
	if got := env.balance(t, 10); got != 700 {
		t.Fatalf("completed request must not refund, balance = %d", got)
	}
}

func TestRedemption_CancelRefunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sub := seedRedemption(t, env, 10, 1000)

	req, err := env.redemption.Create(ctx, 10, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.redemption.Update(ctx, &types.UpdateRedemptionReq{RequestID: req.ID, NewStatus: "cancelled"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	acc, _ := env.points.GetAccountDashboard(ctx, 10)
	if acc.Balance != 1000 || acc.TotalUsed != 0 {
		t.Fatalf("account after refund: %+v", acc)
	}
	var refunds int64
	env.db.Model(&models.PointsLog{}).Where("user_id = ? AND change_type = ?", 10, models.TypeRedemptionRefund).Count(&refunds)
	if refunds != 1 {
		t.Fatalf("refund logs = %d", refunds)
	}
}

func TestRedemption_CreateRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sub := seedRedemption(t, env, 10, 100)

	if _, err := env.redemption.Create(ctx, 10, sub.ID); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	var count int64
	env.db.Model(&models.RedemptionRequest{}).Count(&count)
	if count != 0 {
		t.Fatalf("failed redemption left %d rows", count)
	}

	if _, err := env.redemption.Create(ctx, 10, 999); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := env.subs.Toggle(ctx, sub.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.redemption.Create(ctx, 10, sub.ID); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}

	if _, err := env.redemption.UserDAO.GetOrCreate(ctx, 10); err != nil {
		t.Fatal(err)
	}
	env.db.Model(&models.Users{}).Where("id = ?", 10).Update("status", models.UserStatusBanned)
	if _, err := env.redemption.Create(ctx, 10, sub.ID); !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected banned, got %v", err)
	}
}

func TestRedemption_UpdateUnknown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.redemption.Update(ctx, &types.UpdateRedemptionReq{RequestID: 1, NewStatus: "shipped"}); !errors.Is(err, redemption.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := env.redemption.Update(ctx, &types.UpdateRedemptionReq{RequestID: 404, NewStatus: "failed"}); !errors.Is(err, ErrRedemptionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRedemption_CancelStale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sub := seedRedemption(t, env, 10, 1000)

	old, _ := env.redemption.Create(ctx, 10, sub.ID)
	fresh, _ := env.redemption.Create(ctx, 10, sub.ID)
	env.db.Model(&models.RedemptionRequest{}).Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().Add(-48*time.Hour))

	n, err := env.redemption.CancelStale(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("cancelled %d", n)
	}

	var a, b models.RedemptionRequest
	env.db.First(&a, old.ID)
	env.db.First(&b, fresh.ID)
	if a.Status != "cancelled" || b.Status != "pending" {
		t.Fatalf("statuses: %s %s", a.Status, b.Status)
	}
	if got := env.balance(t, 10); got != 700 {
		t.Fatalf("balance = %d, want 700", got)
	}

	mine, err := env.redemption.ListMine(ctx, 10, 0, 10)
	if err != nil || len(mine.Items) != 2 {
		t.Fatalf("list mine: %+v %v", mine, err)
	}
	pending, _ := env.redemption.List(ctx, &types.ListRedemptionsReq{Status: "pending", Limit: 10})
	if len(pending.Items) != 1 || pending.Items[0].ID != fresh.ID {
		t.Fatalf("admin list: %+v", pending)
	}
}
