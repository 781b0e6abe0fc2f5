package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type blacklistTokenGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装
func NewBlacklistTokenRepository(db *gorm.DB) repo.BlacklistTokenRepository {
	return &blacklistTokenGormRepository{db: db}
}

// 失効記録を保存します。
// token列のunique衝突は既に失効済みなので成功扱い（冪等）。
func (r *blacklistTokenGormRepository) Create(ctx context.Context, token *model.BlacklistToken) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoNothing: true,
		}).
		Create(token).Error

	if err != nil {
		return err
	}
	return nil
}

// token文字列の完全一致で1件数えます。
func (r *blacklistTokenGormRepository) Exists(ctx context.Context, token string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.BlacklistToken{}).
		Where("token = ?", token).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// 自然失効を過ぎた記録だけ削除します。
// 失効前の削除は不正（blacklistの意味が消える）なのでexpires_atで絞る。
func (r *blacklistTokenGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.BlacklistToken{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
