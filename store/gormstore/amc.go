package gormstore

import (
	"context"
	"time"

	"aquaserve-backend/models"
	"aquaserve-backend/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreatePlan(ctx context.Context, plan *models.AmcPlan) error {
	return translate(s.db.WithContext(ctx).Create(plan).Error)
}

func (s *Store) GetPlan(ctx context.Context, id uuid.UUID) (*models.AmcPlan, error) {
	var plan models.AmcPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

func (s *Store) GetPlanByCode(ctx context.Context, code string) (*models.AmcPlan, error) {
	var plan models.AmcPlan
	if err := s.db.WithContext(ctx).First(&plan, "plan_code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

func (s *Store) ListPlans(ctx context.Context, filter store.PlanFilter) ([]models.AmcPlan, error) {
	query := s.db.WithContext(ctx).Model(&models.AmcPlan{})
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	var plans []models.AmcPlan
	if err := query.Order("price asc").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *Store) UpdatePlan(ctx context.Context, plan *models.AmcPlan) error {
	return translate(s.db.WithContext(ctx).Save(plan).Error)
}

// CreateSubscription persists the subscription; any up-front payment is
// added to the customer's lifetime spend in the same transaction.
func (s *Store) CreateSubscription(ctx context.Context, sub *models.AmcSubscription) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		if sub.PaidAmount <= 0 {
			return nil
		}
		return tx.Model(&models.Customer{}).
			Where("id = ?", sub.CustomerID).
			Update("total_spent", gorm.Expr("total_spent + ?", sub.PaidAmount)).Error
	})
	return translate(err)
}

func (s *Store) GetSubscription(ctx context.Context, id uuid.UUID) (*models.AmcSubscription, error) {
	var sub models.AmcSubscription
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Plan").
		First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (s *Store) ListSubscriptions(ctx context.Context, filter store.SubscriptionFilter) ([]models.AmcSubscription, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.AmcSubscription{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit)
	var subs []models.AmcSubscription
	if err := query.Preload("Plan").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (s *Store) UpdateSubscription(ctx context.Context, sub *models.AmcSubscription) error {
	return translate(s.db.WithContext(ctx).Save(sub).Error)
}

// RecordPayment saves the subscription's payment fields and adds the paid
// delta to the customer's lifetime spend in one transaction.
func (s *Store) RecordPayment(ctx context.Context, sub *models.AmcSubscription, paidDelta float64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sub).Error; err != nil {
			return err
		}
		if paidDelta <= 0 {
			return nil
		}
		return tx.Model(&models.Customer{}).
			Where("id = ?", sub.CustomerID).
			Update("total_spent", gorm.Expr("total_spent + ?", paidDelta)).Error
	})
	return translate(err)
}

func (s *Store) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.AmcSubscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, now).
		Update("status", models.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}

func (s *Store) CreateVisit(ctx context.Context, visit *models.AmcVisit) error {
	return translate(s.db.WithContext(ctx).Create(visit).Error)
}

func (s *Store) GetVisit(ctx context.Context, id uuid.UUID) (*models.AmcVisit, error) {
	var visit models.AmcVisit
	if err := s.db.WithContext(ctx).
		Preload("Technician").
		First(&visit, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &visit, nil
}

func (s *Store) ListVisits(ctx context.Context, filter store.VisitFilter) ([]models.AmcVisit, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.AmcVisit{})
	if filter.SubscriptionID != nil {
		query = query.Where("subscription_id = ?", *filter.SubscriptionID)
	}
	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit)
	var visits []models.AmcVisit
	if err := query.Order("scheduled_date asc").Offset(offset).Limit(limit).
		Find(&visits).Error; err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

// UpdateVisit writes the visit and shifts the owning subscription's visit
// counters by counterDelta in the same transaction.
func (s *Store) UpdateVisit(ctx context.Context, visit *models.AmcVisit, counterDelta int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(visit).Error; err != nil {
			return err
		}
		if counterDelta == 0 {
			return nil
		}
		return tx.Model(&models.AmcSubscription{}).
			Where("id = ?", visit.SubscriptionID).
			Updates(map[string]interface{}{
				"visits_used":      gorm.Expr("visits_used + ?", counterDelta),
				"visits_remaining": gorm.Expr("visits_remaining - ?", counterDelta),
			}).Error
	})
	return translate(err)
}
