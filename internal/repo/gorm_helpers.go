package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mailsort-api/internal/domain"
)

// updateByID 先确认存在再写，短事务内完成；cols 为空时只做存在性检查
func updateByID(ctx context.Context, db *gorm.DB, model any, id uint, cols domain.Columns) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("lookup %d: %w", id, err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(model).Where("id = ?", id).Updates(map[string]any(cols)).Error; err != nil {
			return fmt.Errorf("update %d: %w", id, err)
		}
		return nil
	})
}

// deleteByID 物理删除；影响 0 行视为不存在
func deleteByID(ctx context.Context, db *gorm.DB, model any, id uint) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
