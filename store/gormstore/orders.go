package gormstore

import (
	"context"
	"time"

	"aquaserve-backend/models"
	"aquaserve-backend/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.Order, history *models.OrderHistory) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		history.OrderID = order.ID
		return tx.Create(history).Error
	})
	return translate(err)
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("AssignedTo").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit)
	var orders []models.Order
	if err := query.Preload("AssignedTo").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateOrder writes the order and its history row in one transaction. A
// transition into completed also bumps the customer's booking stats.
func (s *Store) UpdateOrder(ctx context.Context, order *models.Order, history *models.OrderHistory) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		history.OrderID = order.ID
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		completed := history.NewStatus == models.OrderStatusCompleted &&
			history.OldStatus != models.OrderStatusCompleted
		if completed && order.CustomerID != nil {
			now := time.Now()
			return tx.Model(&models.Customer{}).
				Where("id = ?", *order.CustomerID).
				Updates(map[string]interface{}{
					"total_bookings":    gorm.Expr("total_bookings + 1"),
					"last_booking_date": &now,
				}).Error
		}
		return nil
	})
	return translate(err)
}

func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderHistory{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func (s *Store) ListOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error) {
	var history []models.OrderHistory
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&history).Error
	return history, err
}
