package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
)

// OrderRepository defines data access for the internal order log.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByPaymentReference(ctx context.Context, reference string) (*models.Order, error)
	// ClaimForSettlement atomically claims the order for settlement by moving
	// payment_status from pending to verified. A verified claim whose row has
	// not been touched within claimStaleAfter is considered abandoned and may
	// be taken over. Returns false when another attempt holds a fresh claim
	// or the order is already terminal.
	ClaimForSettlement(ctx context.Context, reference string) (bool, error)
	MarkPaid(ctx context.Context, reference string, shopifyOrderID int64, shopifyOrderName string, paidAt time.Time) error
	MarkNeedsReview(ctx context.Context, reference, note string) error
	FindNeedsReview(ctx context.Context, page, limit int) ([]models.Order, int64, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("payment_reference = ?", reference).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// claimStaleAfter is how long a settlement claim may sit in verified before
// another attempt is allowed to take it over.
const claimStaleAfter = 2 * time.Minute

func (r *GormOrderRepository) ClaimForSettlement(ctx context.Context, reference string) (bool, error) {
	// The update refreshes updated_at, so a live claim stays fresh while a
	// claim abandoned mid-settlement becomes reclaimable.
	tx := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_reference = ? AND (payment_status = ? OR (payment_status = ? AND updated_at < ?))",
			reference, models.PaymentStatusPending, models.PaymentStatusVerified, time.Now().Add(-claimStaleAfter)).
		Update("payment_status", models.PaymentStatusVerified)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *GormOrderRepository) MarkPaid(ctx context.Context, reference string, shopifyOrderID int64, shopifyOrderName string, paidAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_reference = ? AND payment_status != ?", reference, models.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status":     models.PaymentStatusPaid,
			"status":             models.OrderStatusPaid,
			"shopify_order_id":   shopifyOrderID,
			"shopify_order_name": shopifyOrderName,
			"paid_at":            paidAt,
		}).Error
}

func (r *GormOrderRepository) MarkNeedsReview(ctx context.Context, reference, note string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_reference = ? AND payment_status != ?", reference, models.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusVerified,
			"status":         models.OrderStatusNeedsReview,
			"notes":          note,
		}).Error
}

func (r *GormOrderRepository) FindNeedsReview(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", models.OrderStatusNeedsReview)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
