package repository

import (
	"app/internal/domain/model"
	"context"
	"time"
)

// blacklistの保存・照合・掃除
type BlacklistTokenRepository interface {
	// 失効記録を保存する。同じtokenの二重登録はエラーにしない（冪等）。
	Create(ctx context.Context, token *model.BlacklistToken) error
	//token文字列の完全一致で存在確認
	Exists(ctx context.Context, token string) (bool, error)
	// expires_atを過ぎた記録だけ削除する。tokenの自然失効前に消してはいけない。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
