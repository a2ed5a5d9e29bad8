package referral

import "Rewards/models"

// Stats 邀请面板展示数据
type Stats struct {
	TotalReferrals     int   `json:"total_referrals"`
	PendingReferrals   int   `json:"pending_referrals"`
	CompletedReferrals int   `json:"completed_referrals"`
	Level1Count        int   `json:"level1_count"`
	Level2Count        int   `json:"level2_count"`
	Level3Count        int   `json:"level3_count"`
	BonusEarnings      int64 `json:"bonus_earnings"`
	CommissionEarnings int64 `json:"commission_earnings"`
	TotalEarnings      int64 `json:"total_earnings"`
	// 查询超时或失败时返回零值并置为 true
	Degraded bool `json:"degraded"`
}

// Project 纯聚合，不访问存储。未知状态/层级只计入总数
func Project(referrals []models.Referral, earnings []models.ReferralEarning) Stats {
	var s Stats
	for _, r := range referrals {
		s.TotalReferrals++
		switch r.Status {
		case models.ReferralStatusPending:
			s.PendingReferrals++
		case models.ReferralStatusCompleted:
			s.CompletedReferrals++
			s.BonusEarnings += r.PointsAwarded
		}
		switch r.Level {
		case 1:
			s.Level1Count++
		case 2:
			s.Level2Count++
		case 3:
			s.Level3Count++
		}
	}
	for _, e := range earnings {
		s.CommissionEarnings += e.CommissionPoints
	}
	s.TotalEarnings = s.BonusEarnings + s.CommissionEarnings
	return s
}
