package repository

import (
	"context"

	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

// 状態変更と同じtxで書く
func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(auditFilter(f)).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// nilでない条件だけWHEREに足す
func auditFilter(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		conds := []struct {
			sql string
			ok  bool
			v   interface{}
		}{
			{"actor_user_id = ?", f.ActorUserID != nil, derefAny(f.ActorUserID)},
			{"action = ?", f.Action != nil, derefAny(f.Action)},
			{"resource_type = ?", f.ResourceType != nil, derefAny(f.ResourceType)},
			{"resource_id = ?", f.ResourceID != nil, derefAny(f.ResourceID)},
			{"created_at >= ?", f.CreatedFrom != nil, derefAny(f.CreatedFrom)},
			{"created_at <= ?", f.CreatedTo != nil, derefAny(f.CreatedTo)},
		}
		for _, c := range conds {
			if c.ok {
				q = q.Where(c.sql, c.v)
			}
		}
		return q
	}
}

func derefAny[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
