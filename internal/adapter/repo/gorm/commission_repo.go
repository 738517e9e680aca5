package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"printbank/internal/adapter/repo/gorm/model"
	"printbank/internal/app/ports"
)

// CommissionQueue is the outbox of referral commission credits.
type CommissionQueue struct {
	db *gorm.DB
}

func NewCommissionQueue(db *gorm.DB) CommissionQueue {
	return CommissionQueue{db: db}
}

func (q CommissionQueue) Enqueue(ctx context.Context, credits ...ports.CommissionCredit) error {
	if len(credits) == 0 {
		return nil
	}
	rows := make([]model.CommissionCredit, 0, len(credits))
	for _, c := range credits {
		status := c.Status
		if status == "" {
			status = ports.CreditPending
		}
		rows = append(rows, model.CommissionCredit{
			ID:         c.ID,
			ReferrerID: c.ReferrerID,
			ReferralID: c.ReferralID,
			Amount:     c.Amount,
			Depth:      int32(c.Depth),
			Status:     string(status),
			Attempts:   int32(c.Attempts),
			LastError:  c.LastError,
			CreatedAt:  c.CreatedAt,
		})
	}
	if err := getDBFromCtx(ctx, q.db).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (q CommissionQueue) ListPending(ctx context.Context, limit int) ([]ports.CommissionCredit, error) {
	rows := []model.CommissionCredit{}
	query := getDBFromCtx(ctx, q.db).
		Where("status = ?", string(ports.CreditPending)).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.CommissionCredit, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromCreditModel(row))
	}
	return out, nil
}

// MarkDelivered flips status only while the credit is still pending, so two
// dispatchers racing on one credit apply it once.
func (q CommissionQueue) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	res := getDBFromCtx(ctx, q.db).Model(&model.CommissionCredit{}).
		Where("id = ? AND status = ?", id, string(ports.CreditPending)).
		Updates(map[string]any{
			"status":       string(ports.CreditDelivered),
			"delivered_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (q CommissionQueue) MarkFailed(ctx context.Context, id, lastErr string, dead bool) error {
	updates := map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": lastErr,
	}
	if dead {
		updates["status"] = string(ports.CreditDead)
	}
	res := getDBFromCtx(ctx, q.db).Model(&model.CommissionCredit{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func fromCreditModel(m model.CommissionCredit) ports.CommissionCredit {
	return ports.CommissionCredit{
		ID:          m.ID,
		ReferrerID:  m.ReferrerID,
		ReferralID:  m.ReferralID,
		Amount:      m.Amount,
		Depth:       int(m.Depth),
		Status:      ports.CreditStatus(m.Status),
		Attempts:    int(m.Attempts),
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt.UTC(),
		DeliveredAt: utcPtr(m.DeliveredAt),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
