package user

import (
	"Rewards/models"
	"Rewards/service"
	"Rewards/types"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

type fakeRepo struct {
	users map[uint64]*UserRow
}

func (f *fakeRepo) List(_ context.Context, _, status string, _ uint64, limit int) ([]UserRow, error) {
	rows := make([]UserRow, 0)
	for id := uint64(len(f.users)); id > 0; id-- {
		u, ok := f.users[id]
		if !ok || (status != "" && u.Status != status) {
			continue
		}
		if len(rows) == limit {
			break
		}
		rows = append(rows, *u)
	}
	return rows, nil
}

func (f *fakeRepo) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uint64, status string) (int64, error) {
	u, ok := f.users[id]
	if !ok {
		return 0, nil
	}
	u.Status = status
	return 1, nil
}

type pointCall struct {
	userID     uint64
	amount     int64
	changeType int
	sourceID   string
	consume    bool
}

type fakePoints struct {
	calls []pointCall
}

func (f *fakePoints) ConsumePoints(_ context.Context, userID uint64, amount int64, changeType int, sourceID, _ string) (*types.PointsAccount, error) {
	f.calls = append(f.calls, pointCall{userID, amount, changeType, sourceID, true})
	return &types.PointsAccount{}, nil
}

func (f *fakePoints) RewardPoints(_ context.Context, userID uint64, amount int64, changeType int, sourceID, _ string, _ bool) (*types.PointsAccount, error) {
	f.calls = append(f.calls, pointCall{userID, amount, changeType, sourceID, false})
	return &types.PointsAccount{Balance: amount}, nil
}

func (f *fakePoints) SettlePoints(context.Context, uint64, int, string) (*types.PointsAccount, error) {
	return &types.PointsAccount{}, nil
}

func (f *fakePoints) GetAccountDashboard(context.Context, uint64) (*types.PointsAccount, error) {
	return &types.PointsAccount{}, nil
}

func (f *fakePoints) ListPointRecords(context.Context, uint64, string, int64, int) (*types.ListPointsRecord, error) {
	return &types.ListPointsRecord{}, nil
}

func newFakeService() (Service, *fakeRepo, *fakePoints) {
	repo := &fakeRepo{users: map[uint64]*UserRow{
		1: {ID: 1, Email: "a@test.io", Status: models.UserStatusActive, Balance: 10},
		2: {ID: 2, Email: "b@test.io", Status: models.UserStatusActive},
		3: {ID: 3, Email: "c@test.io", Status: models.UserStatusBanned},
	}}
	points := &fakePoints{}
	return NewService(repo, points), repo, points
}

func TestUpdatePoints(t *testing.T) {
	svc, _, points := newFakeService()
	ctx := context.Background()

	if _, err := svc.UpdatePoints(ctx, &UpdatePointsRequest{UserID: 1, Delta: 50}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdatePoints(ctx, &UpdatePointsRequest{UserID: 1, Delta: -20, Reason: "扣回"}); err != nil {
		t.Fatal(err)
	}
	if len(points.calls) != 2 {
		t.Fatalf("calls: %+v", points.calls)
	}
	add, sub := points.calls[0], points.calls[1]
	if add.consume || add.amount != 50 || add.changeType != models.TypeSystemCompensate {
		t.Fatalf("credit call: %+v", add)
	}
	if !sub.consume || sub.amount != 20 {
		t.Fatalf("debit call: %+v", sub)
	}
	if !strings.HasPrefix(add.sourceID, "adj:") || add.sourceID == sub.sourceID {
		t.Fatalf("source ids: %q %q", add.sourceID, sub.sourceID)
	}

	if _, err := svc.UpdatePoints(ctx, &UpdatePointsRequest{UserID: 1, Delta: 0}); !errors.Is(err, service.ErrInvalidAmount) {
		t.Fatalf("zero delta: %v", err)
	}
	if _, err := svc.UpdatePoints(ctx, &UpdatePointsRequest{UserID: 99, Delta: 5}); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("unknown user: %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, repo, _ := newFakeService()
	ctx := context.Background()

	if err := svc.UpdateStatus(ctx, &UpdateStatusRequest{UserID: 2, Status: models.UserStatusBanned}); err != nil {
		t.Fatal(err)
	}
	if repo.users[2].Status != models.UserStatusBanned {
		t.Fatalf("status not saved")
	}
	if err := svc.UpdateStatus(ctx, &UpdateStatusRequest{UserID: 2, Status: "deleted"}); !errors.Is(err, errInvalidStatus) {
		t.Fatalf("invalid status: %v", err)
	}
	if err := svc.UpdateStatus(ctx, &UpdateStatusRequest{UserID: 42, Status: models.UserStatusActive}); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("unknown user: %v", err)
	}
}

func TestList(t *testing.T) {
	svc, _, _ := newFakeService()
	resp, err := svc.List(context.Background(), &ListUsersRequest{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 2 || !resp.HasMore || resp.NextCursor != 2 {
		t.Fatalf("page: %+v", resp)
	}

	banned, _ := svc.List(context.Background(), &ListUsersRequest{Status: models.UserStatusBanned, Limit: 10})
	if len(banned.Items) != 1 || banned.Items[0].ID != 3 || banned.HasMore {
		t.Fatalf("banned: %+v", banned)
	}
}

func TestToBizError(t *testing.T) {
	cases := map[error]int{
		service.ErrInvalidAmount:       http.StatusBadRequest,
		service.ErrUserNotFound:        http.StatusNotFound,
		service.ErrInsufficientBalance: http.StatusConflict,
		errors.New("boom"):             http.StatusInternalServerError,
	}
	for in, want := range cases {
		got, ok := toBizError(in).(interface{ Status() int })
		if !ok || got.Status() != want {
			t.Errorf("%v: want %d", in, want)
		}
	}
}
