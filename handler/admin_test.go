package handler

import (
	"Rewards/config"
	"Rewards/internal/redemption"
	"Rewards/models"
	"Rewards/pkg/jwt"
	"Rewards/service"
	"Rewards/types"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeSubscriptions struct {
	subs []models.Subscription
}

func (f *fakeSubscriptions) List(_ context.Context, includeOutOfStock bool) ([]models.Subscription, error) {
	out := make([]models.Subscription, 0)
	for _, s := range f.subs {
		if includeOutOfStock || s.InStock {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptions) Toggle(_ context.Context, id uint64) (*models.Subscription, error) {
	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs[i].InStock = !f.subs[i].InStock
			return &f.subs[i], nil
		}
	}
	return nil, service.ErrSubscriptionNotFound
}

func (f *fakeSubscriptions) Add(_ context.Context, req *types.AddSubscriptionReq) (*models.Subscription, error) {
	s := models.Subscription{ID: uint64(len(f.subs) + 1), Name: req.Name, PointsCost: req.PointsCost, InStock: true}
	f.subs = append(f.subs, s)
	return &s, nil
}

func (f *fakeSubscriptions) Delete(_ context.Context, id uint64) error {
	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return service.ErrSubscriptionNotFound
}

// fakeRedemptions 内存版，状态流转复用真实的状态机
type fakeRedemptions struct {
	reqs map[uint64]*models.RedemptionRequest
}

func (f *fakeRedemptions) Create(_ context.Context, userID, subscriptionID uint64) (*models.RedemptionRequest, error) {
	r := &models.RedemptionRequest{ID: uint64(len(f.reqs) + 1), UserID: userID, SubscriptionID: subscriptionID, Status: "pending"}
	f.reqs[r.ID] = r
	return r, nil
}

func (f *fakeRedemptions) ListMine(context.Context, uint64, uint64, int) (*types.ListRedemptionsResp, error) {
	return &types.ListRedemptionsResp{Items: []types.RedemptionItem{}}, nil
}

func (f *fakeRedemptions) List(_ context.Context, req *types.ListRedemptionsReq) (*types.ListRedemptionsResp, error) {
	resp := &types.ListRedemptionsResp{Items: []types.RedemptionItem{}}
	for _, r := range f.reqs {
		if req.Status == "" || r.Status == req.Status {
			resp.Items = append(resp.Items, types.RedemptionItem{ID: r.ID, Status: r.Status})
		}
	}
	return resp, nil
}

func (f *fakeRedemptions) Update(_ context.Context, in *types.UpdateRedemptionReq) (*models.RedemptionRequest, error) {
	status, err := redemption.ParseStatus(in.NewStatus)
	if err != nil {
		return nil, err
	}
	r, ok := f.reqs[in.RequestID]
	if !ok {
		return nil, service.ErrRedemptionNotFound
	}
	upd := redemption.Update{NewStatus: status, ActivationCode: in.ActivationCode, Instructions: in.Instructions}
	if err := redemption.Apply(r, upd, time.Now(), 0); err != nil {
		return nil, err
	}
	return r, nil
}

func (f *fakeRedemptions) CancelStale(context.Context, time.Duration) (int, error) {
	return 0, nil
}

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newAdminRouter(t *testing.T) (*gin.Engine, *config.Config, *fakeRedemptions) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg, err := config.Parse([]byte("jwt:\n  secret: handler-test\n"))
	if err != nil {
		t.Fatal(err)
	}
	reds := &fakeRedemptions{reqs: map[uint64]*models.RedemptionRequest{
		1: {ID: 1, UserID: 7, Status: "pending", PointsSpent: 300},
	}}
	h := &Admin{
		Config: cfg,
		SubscriptionService: &fakeSubscriptions{subs: []models.Subscription{
			{ID: 1, Name: "Basic", PointsCost: 100, InStock: true},
			{ID: 2, Name: "Hidden", PointsCost: 50, InStock: false},
		}},
		RedemptionService: reds,
	}
	r := gin.New()
	h.RegisterRouter(r.Group("/api"))
	return r, cfg, reds
}

func token(t *testing.T, cfg *config.Config, uid uint64, role string) string {
	t.Helper()
	tok, err := jwt.GenerateToken([]byte(cfg.Jwt.Secret), uid, role, jwt.TypeAccess, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func do(r http.Handler, method, path, tok string, body any) (*httptest.ResponseRecorder, apiResponse) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestAdmin_Authorization(t *testing.T) {
	r, cfg, _ := newAdminRouter(t)

	if w, _ := do(r, http.MethodGet, "/api/v1/admin/subscriptions?action=list", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", w.Code)
	}
	if w, _ := do(r, http.MethodGet, "/api/v1/admin/subscriptions?action=list", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", w.Code)
	}
	if w, _ := do(r, http.MethodGet, "/api/v1/admin/subscriptions?action=list", token(t, cfg, 7, jwt.RoleUser), nil); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin: %d", w.Code)
	}
	if w, _ := do(r, http.MethodGet, "/api/v1/admin/subscriptions?action=list", token(t, cfg, 1, jwt.RoleAdmin), nil); w.Code != http.StatusOK {
		t.Fatalf("admin: %d", w.Code)
	}
}

func TestAdmin_Subscriptions(t *testing.T) {
	r, cfg, _ := newAdminRouter(t)
	admin := token(t, cfg, 1, jwt.RoleAdmin)

	_, resp := do(r, http.MethodGet, "/api/v1/admin/subscriptions?action=list", admin, nil)
	var subs []models.Subscription
	if err := json.Unmarshal(resp.Data, &subs); err != nil || len(subs) != 2 {
		t.Fatalf("list should include out of stock: %s", resp.Data)
	}

	w, resp := do(r, http.MethodPost, "/api/v1/admin/subscriptions?action=toggle", admin, map[string]any{"id": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: %d %s", w.Code, resp.Msg)
	}
	var toggled models.Subscription
	_ = json.Unmarshal(resp.Data, &toggled)
	if !toggled.InStock {
		t.Fatalf("toggle did not flip: %+v", toggled)
	}

	if w, _ := do(r, http.MethodPost, "/api/v1/admin/subscriptions?action=add", admin, map[string]any{"name": "Pro"}); w.Code != http.StatusBadRequest {
		t.Fatalf("add without cost: %d", w.Code)
	}
	if w, _ := do(r, http.MethodPost, "/api/v1/admin/subscriptions?action=add", admin, map[string]any{"name": "Pro", "points_cost": 900}); w.Code != http.StatusOK {
		t.Fatalf("add: %d", w.Code)
	}
	if w, _ := do(r, http.MethodPost, "/api/v1/admin/subscriptions?action=delete", admin, map[string]any{"id": 42}); w.Code != http.StatusNotFound {
		t.Fatalf("delete missing: %d", w.Code)
	}
	if w, _ := do(r, http.MethodPost, "/api/v1/admin/subscriptions?action=archive", admin, map[string]any{"id": 1}); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action: %d", w.Code)
	}
}

func TestAdmin_RedemptionUpdate(t *testing.T) {
	r, cfg, reds := newAdminRouter(t)
	admin := token(t, cfg, 1, jwt.RoleAdmin)
	path := "/api/v1/admin/redemptions?action=update"

	w, resp := do(r, http.MethodPost, path, admin, map[string]any{"requestId": 1, "newStatus": "completed"})
	if w.Code != http.StatusBadRequest || resp.Code != http.StatusBadRequest {
		t.Fatalf("completed without code: %d %+v", w.Code, resp)
	}
	if reds.reqs[1].Status != "pending" {
		t.Fatalf("request changed: %+v", reds.reqs[1])
	}

	if w, _ := do(r, http.MethodPost, path, admin, map[string]any{"requestId": 1, "newStatus": "shipped"}); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: %d", w.Code)
	}

	w, resp = do(r, http.MethodPost, path, admin, map[string]any{"requestId": 1, "newStatus": "completed", "activationCode": "KEY-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", w.Code, resp.Msg)
	}
	var done models.RedemptionRequest
	_ = json.Unmarshal(resp.Data, &done)
	if done.ActivationCode != "KEY-1" || done.ExpiresAt == nil {
		t.Fatalf("completed request: %+v", done)
	}

	if w, _ := do(r, http.MethodPost, path, admin, map[string]any{"requestId": 1, "newStatus": "failed"}); w.Code != http.StatusConflict {
		t.Fatalf("terminal: %d", w.Code)
	}
	if w, _ := do(r, http.MethodPost, path, admin, map[string]any{"requestId": 9, "newStatus": "failed"}); w.Code != http.StatusNotFound {
		t.Fatalf("missing: %d", w.Code)
	}

	w, resp = do(r, http.MethodGet, "/api/v1/admin/redemptions?action=list&status=completed", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var list types.ListRedemptionsResp
	_ = json.Unmarshal(resp.Data, &list)
	if len(list.Items) != 1 {
		t.Fatalf("list: %+v", list)
	}
}

func TestBizError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrInsufficientBalance, http.StatusConflict},
		{fmt.Errorf("wrap: %w", redemption.ErrTerminalState), http.StatusConflict},
		{redemption.ErrActivationCodeRequired, http.StatusBadRequest},
		{service.ErrUserBanned, http.StatusForbidden},
		{service.ErrReferralCodeNotFound, http.StatusNotFound},
		{fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		be, ok := bizError(tc.err).(interface{ Status() int })
		if !ok || be.Status() != tc.want {
			t.Errorf("%v: got %v", tc.err, bizError(tc.err))
		}
	}
}
