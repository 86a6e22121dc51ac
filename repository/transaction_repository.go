package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
)

// TransactionRepository defines data access for payment transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.PaymentTransaction) error
	FindByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error)
	UpdateStatusByReference(ctx context.Context, reference, status string, metadata *string) error
}

// GormTransactionRepository implements TransactionRepository using GORM.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository.
func NewGormTransactionRepository(db *gorm.DB) TransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *GormTransactionRepository) FindByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *GormTransactionRepository) UpdateStatusByReference(ctx context.Context, reference, status string, metadata *string) error {
	updates := map[string]interface{}{"status": status}
	if metadata != nil {
		updates["metadata"] = metadata
	}
	return r.db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("reference = ?", reference).
		Updates(updates).Error
}
