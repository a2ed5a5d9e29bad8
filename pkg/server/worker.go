package server

import (
	"Rewards/config"
	"Rewards/dao"
	"Rewards/pkg/log"
	"Rewards/service"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// 单次预热的邀请人上限
const warmBatch = 200

type Worker struct {
	Config     *config.Config
	Redemption service.IRedemptionService
	Referral   service.IReferralService
	EarningDAO *dao.Earning
}

// RunWorker 定时任务：取消超时兑换单、预热邀请统计缓存
func RunWorker(ctx *cli.Context, w *Worker) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	if err := w.register(ctx.Context, sched); err != nil {
		return err
	}
	sched.Start()
	log.L.Info("worker started", zap.Int("jobs", len(sched.Jobs())))

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	select {
	case <-ctx.Context.Done():
	case <-c:
	}

	log.L.Info("worker stopping")
	return sched.Shutdown()
}

func (w *Worker) register(ctx context.Context, sched gocron.Scheduler) error {
	interval := w.Config.Redemption.SweepInterval()

	if ttl := w.Config.Redemption.PendingTTL(); ttl > 0 {
		_, err := sched.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				n, err := w.Redemption.CancelStale(ctx, ttl)
				if err != nil {
					log.L.Error("cancel stale redemptions", zap.Error(err))
					return
				}
				if n > 0 {
					log.L.Info("cancelled stale redemptions", zap.Int("count", n))
				}
			}),
			gocron.WithName("cancel-stale-redemptions"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}
	}

	if w.Config.Referral.CacheTTL() > 0 {
		_, err := sched.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() { w.warmStats(ctx, interval) }),
			gocron.WithName("warm-referral-stats"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// warmStats 刷新最近有返佣变动的邀请人统计
func (w *Worker) warmStats(ctx context.Context, window time.Duration) {
	uids, err := w.EarningDAO.RecentReferrers(ctx, time.Now().Add(-2*window), warmBatch)
	if err != nil {
		log.L.Error("load recent referrers", zap.Error(err))
		return
	}
	for _, uid := range uids {
		if err := w.Referral.RefreshStats(ctx, uid); err != nil {
			log.L.Warn("refresh referral stats", zap.Uint64("user_id", uid), zap.Error(err))
		}
	}
}
