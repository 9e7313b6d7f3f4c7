package gormstore

import (
	"context"

	"aquaserve-backend/models"
	"aquaserve-backend/store"

	"github.com/google/uuid"
)

func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return translate(s.db.WithContext(ctx).Create(customer).Error)
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (s *Store) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "phone = ?", phone).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (s *Store) ListCustomers(ctx context.Context, filter store.CustomerFilter) ([]models.Customer, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Customer{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"name ILIKE ? OR phone ILIKE ? OR email ILIKE ? OR customer_number ILIKE ?",
			like, like, like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit)
	var customers []models.Customer
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return translate(s.db.WithContext(ctx).Save(customer).Error)
}

func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountCustomerOrders(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}
