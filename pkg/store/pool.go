package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// poolCache は接続文字列ごとの *pgxpool.Pool をプロセス内で使い回すためのキャッシュです。
// 接続プールは生成コストが高いため、同一 DSN への再接続を避けます。
var (
	poolCache = cache.New(cache.NoExpiration, cache.NoExpiration)
	poolGroup singleflight.Group
)

// AcquirePool は接続文字列に対応する接続プールを返します。
// 同じ DSN に対する同時初期化は singleflight で1回に集約されます。
func AcquirePool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if cached, ok := poolCache.Get(databaseURL); ok {
		return cached.(*pgxpool.Pool), nil
	}

	val, err, _ := poolGroup.Do(databaseURL, func() (interface{}, error) {
		// singleflight 突入前後の競合に備えて再確認
		if cached, ok := poolCache.Get(databaseURL); ok {
			return cached, nil
		}
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("接続プールの初期化に失敗しました: %w", err)
		}
		poolCache.Set(databaseURL, pool, cache.NoExpiration)
		return pool, nil
	})
	if err != nil {
		return nil, err
	}

	pool, ok := val.(*pgxpool.Pool)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return pool, nil
}
