package service

import (
	"Rewards/config"
	"Rewards/dao"
	"Rewards/models"
	"Rewards/pkg/rocketmq"
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db         *gorm.DB
	cfg        *config.Config
	points     *PointService
	referral   *ReferralService
	redemption *RedemptionService
	subs       *SubscriptionService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "rewards.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// sqlite 单写，事务内所有查询都走同一个 tx
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cfg, err := config.Parse([]byte("referral:\n  hash_salt: test-salt\n  link_origin: https://rewards.test\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	users := dao.NewUsers(db)
	pointDAO := dao.NewPoint(db)
	ref := &ReferralService{
		Config:      cfg,
		DB:          db,
		UserDAO:     users,
		ReferralDAO: dao.NewReferral(db),
		EarningDAO:  dao.NewEarning(db),
		PointDAO:    pointDAO,
		Publisher:   rocketmq.Nop{},
	}
	subDAO := dao.NewSubscription(db)
	return &testEnv{
		db:       db,
		cfg:      cfg,
		referral: ref,
		points: &PointService{
			Config:   cfg,
			DB:       db,
			PointDAO: pointDAO,
			Referral: ref,
		},
		redemption: &RedemptionService{
			Config:          cfg,
			DB:              db,
			RedemptionDAO:   dao.NewRedemption(db),
			SubscriptionDAO: subDAO,
			UserDAO:         users,
			PointDAO:        pointDAO,
			Publisher:       rocketmq.Nop{},
		},
		subs: &SubscriptionService{SubscriptionDAO: subDAO},
	}
}

// refer 让 referred 使用 referrer 的邀请码注册
func (e *testEnv) refer(t *testing.T, referrer, referred uint64) {
	t.Helper()
	ctx := context.Background()
	code, err := e.referral.EnsureCode(ctx, referrer)
	if err != nil {
		t.Fatalf("ensure code for %d: %v", referrer, err)
	}
	if _, err := e.referral.Register(ctx, referred, code); err != nil {
		t.Fatalf("register %d under %d: %v", referred, referrer, err)
	}
}

func (e *testEnv) balance(t *testing.T, userID uint64) int64 {
	t.Helper()
	acc, err := e.points.GetAccountDashboard(context.Background(), userID)
	if err != nil {
		t.Fatalf("balance of %d: %v", userID, err)
	}
	return acc.Balance
}
