package gormstore

import (
	"context"

	"aquaserve-backend/models"
	"aquaserve-backend/store"
)

func (s *Store) DashboardStats(ctx context.Context) (*store.DashboardStats, error) {
	stats := &store.DashboardStats{
		OrdersByStatus: make(map[string]int64),
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, sc := range counts {
		stats.OrdersByStatus[sc.Status] = sc.Count
	}

	if err := s.db.WithContext(ctx).Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.AmcSubscription{}).
		Where("status = ?", models.SubscriptionStatusActive).
		Count(&stats.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.AmcSubscription{}).
		Select("COALESCE(SUM(paid_amount), 0)").
		Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Order("created_at desc").Limit(5).
		Find(&stats.RecentOrders).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
