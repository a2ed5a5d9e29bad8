package server

import (
	"Rewards/config"
	"Rewards/dao"
	"Rewards/models"
	"Rewards/service"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeRedemption struct {
	service.IRedemptionService
	calls chan time.Duration
}

func (f *fakeRedemption) CancelStale(_ context.Context, olderThan time.Duration) (int, error) {
	f.calls <- olderThan
	return 1, nil
}

type fakeReferral struct {
	service.IReferralService
	refreshed []uint64
	failFor   uint64
}

func (f *fakeReferral) RefreshStats(_ context.Context, userID uint64) error {
	f.refreshed = append(f.refreshed, userID)
	if userID == f.failFor {
		return errors.New("redis down")
	}
	return nil
}

func newWorker(t *testing.T, yaml string) (*Worker, *fakeRedemption, *fakeReferral, *gorm.DB) {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "worker.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	red := &fakeRedemption{calls: make(chan time.Duration, 1)}
	ref := &fakeReferral{}
	return &Worker{
		Config:     cfg,
		Redemption: red,
		Referral:   ref,
		EarningDAO: dao.NewEarning(db),
	}, red, ref, db
}

func jobNames(sched gocron.Scheduler) []string {
	var names []string
	for _, j := range sched.Jobs() {
		names = append(names, j.Name())
	}
	slices.Sort(names)
	return names
}

func TestWorker_RegisterSkipsDisabledJobs(t *testing.T) {
	w, _, _, _ := newWorker(t, "redemption:\n  pending_ttl_hours: 0\nreferral:\n  stats_cache_ttl: 0\n")
	sched, err := gocron.NewScheduler()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sched.Shutdown() }()

	if err := w.register(context.Background(), sched); err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := len(sched.Jobs()); n != 0 {
		t.Fatalf("expected no jobs, got %v", jobNames(sched))
	}
}

func TestWorker_RegisterJobs(t *testing.T) {
	w, red, _, _ := newWorker(t, "redemption:\n  pending_ttl_hours: 48\nreferral:\n  stats_cache_ttl: 60\n")
	sched, err := gocron.NewScheduler()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sched.Shutdown() }()

	if err := w.register(context.Background(), sched); err != nil {
		t.Fatalf("register: %v", err)
	}
	names := jobNames(sched)
	if !slices.Equal(names, []string{"cancel-stale-redemptions", "warm-referral-stats"}) {
		t.Fatalf("jobs = %v", names)
	}

	sched.Start()
	for _, j := range sched.Jobs() {
		if j.Name() != "cancel-stale-redemptions" {
			continue
		}
		if err := j.RunNow(); err != nil {
			t.Fatalf("run now: %v", err)
		}
	}
	select {
	case ttl := <-red.calls:
		if ttl != 48*time.Hour {
			t.Fatalf("cancel stale olderThan = %s", ttl)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancel stale job did not run")
	}
}

func TestWorker_WarmStatsRecentReferrers(t *testing.T) {
	w, _, ref, db := newWorker(t, "referral:\n  stats_cache_ttl: 60\n")
	ref.failFor = 7

	now := time.Now()
	rows := []models.ReferralEarning{
		{ReferrerID: 7, ReferredID: 10, TransactionID: "pl:1", OriginalPoints: 100, CommissionPercentage: 10, CommissionPoints: 10, Level: 1, CreatedAt: now},
		{ReferrerID: 7, ReferredID: 11, TransactionID: "pl:2", OriginalPoints: 100, CommissionPercentage: 10, CommissionPoints: 10, Level: 1, CreatedAt: now},
		{ReferrerID: 8, ReferredID: 10, TransactionID: "pl:1", OriginalPoints: 100, CommissionPercentage: 5, CommissionPoints: 5, Level: 2, CreatedAt: now},
		// 超出窗口
		{ReferrerID: 9, ReferredID: 12, TransactionID: "pl:3", OriginalPoints: 100, CommissionPercentage: 10, CommissionPoints: 10, Level: 1, CreatedAt: now.Add(-time.Hour)},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed earnings: %v", err)
	}

	w.warmStats(context.Background(), 5*time.Minute)

	got := slices.Clone(ref.refreshed)
	slices.Sort(got)
	// 7 刷新失败不影响 8
	if !slices.Equal(got, []uint64{7, 8}) {
		t.Fatalf("refreshed = %v", got)
	}
}
