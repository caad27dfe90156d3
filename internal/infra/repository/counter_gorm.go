package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type CounterGormRepository struct {
	db *gorm.DB
}

// DI
func NewCounterGormRepository(db *gorm.DB) *CounterGormRepository {
	return &CounterGormRepository{db: db}
}

// Next は採番をアトミックに行う。
// upsertのRETURNINGで読んで返すので、並行実行でも重複しない。
func (r *CounterGormRepository) Next(ctx context.Context, sequenceName string, seed int64) (int64, error) {
	var value int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counters (sequence_name, value)
		VALUES (?, ?)
		ON CONFLICT (sequence_name)
		DO UPDATE SET value = counters.value + 1
		RETURNING value
	`, sequenceName, seed+1).Scan(&value).Error
	if err != nil {
		return 0, err
	}

	//採番結果が不正なら呼び出し側のcreateごと失敗させる
	if value <= seed {
		return 0, fmt.Errorf("counter %s returned invalid value %d", sequenceName, value)
	}

	return value, nil
}

// Reseed はカウンターをvalueまで引き上げる。既にvalue以上なら変更しない。
func (r *CounterGormRepository) Reseed(ctx context.Context, sequenceName string, value int64) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO counters (sequence_name, value)
		VALUES (?, ?)
		ON CONFLICT (sequence_name)
		DO UPDATE SET value = GREATEST(counters.value, EXCLUDED.value)
	`, sequenceName, value).Error
}
