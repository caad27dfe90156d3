package repository

import "context"

// SKU番号の採番窓口。
type CounterRepository interface {
	//Nextはカウンターをアトミックに+1して新しい値を返す。
	//カウンターが無ければseedで作ってから+1する（初回はseed+1が返る）。
	Next(ctx context.Context, sequenceName string, seed int64) (int64, error)

	//Reseedはカウンターをvalueまで引き上げる（既にvalue以上なら何もしない）。
	//起動時のヒーリング用。何度実行しても安全。
	Reseed(ctx context.Context, sequenceName string, value int64) error
}
