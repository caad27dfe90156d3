package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// OrderStatusUsecase は注文ステータスの状態機械を持つ。
// 認証ありの管理ルートと旧・認証なしルートの両方から同じロジックで呼ばれる。
type OrderStatusUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
}

func NewOrderStatusUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository) *OrderStatusUsecase {
	return &OrderStatusUsecase{tx: tx, auditRepo: auditRepo}
}

type UpdateOrderStatusInput struct {
	Status string
}

type UpdateOrderStatusOutput struct {
	OrderID       int64  `json:"order_id"`
	Status        string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`

	//COMPLETED済みの注文をキャンセルした場合。自動返金はしない
	RefundNeeded bool `json:"refund_needed"`
}

// 注文一覧（新しい順）
func (u *OrderStatusUsecase) ListOrders(ctx context.Context) ([]OrderOutput, error) {
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// SetStatus は注文を遷移させる。
//   - DELIVERED/CANCELLEDは終端。そこからの遷移は拒否（同じ値への再設定だけno-op）。
//   - CANCELLEDへの遷移時は明細ごとに在庫を戻す。1件の失敗でキャンセル全体は止めない。
//   - DELIVERED＋代引き＋支払いPENDINGなら支払いをCOMPLETEDにする。
//   - CANCELLEDで支払いCOMPLETEDなら手動返金が必要な旨だけ伝える。PENDINGならFAILEDへ。
func (u *OrderStatusUsecase) SetStatus(ctx context.Context, actorUserID int64, orderID int64, in UpdateOrderStatusInput) (UpdateOrderStatusOutput, error) {
	if orderID <= 0 {
		return UpdateOrderStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	switch newStatus {
	case model.OrderStatusProcessing, model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled:
		// OK
	default:
		return UpdateOrderStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out UpdateOrderStatusOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 同じ値への再設定は何もしない（在庫戻しの二重実行を防ぐ）
		if o.Status == newStatus {
			out = UpdateOrderStatusOutput{
				OrderID:       orderID,
				Status:        string(o.Status),
				PaymentStatus: string(o.PaymentStatus),
			}
			return nil
		}

		// 終端ガード
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusBadRequest, "cannot change "+strings.ToLower(string(o.Status))+" order")
		}

		newPayment := o.PaymentStatus
		refundNeeded := false

		// キャンセルへの遷移だけ在庫を戻す
		if newStatus == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			for _, it := range items {
				if err := u.restockLine(ctx, r, it); err != nil {
					//ベストエフォート。残りの明細の戻しは続ける
					logger.Error().Err(err).
						Int64("order_id", orderID).
						Int64("product_numeric_id", it.ProductNumericID).
						Str("name", it.NameSnapshot).
						Msg("restock failed")
				}
			}

			switch o.PaymentStatus {
			case model.PaymentStatusCompleted:
				//自動返金はしない。呼び出し側に伝えるだけ
				refundNeeded = true
			case model.PaymentStatusPending:
				newPayment = model.PaymentStatusFailed
			}
		}

		// 代引きは配達完了で回収済みとみなす
		if newStatus == model.OrderStatusDelivered &&
			o.PaymentMethod == model.PaymentMethodCashOnDelivery &&
			o.PaymentStatus == model.PaymentStatusPending {
			newPayment = model.PaymentStatusCompleted
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, newPayment); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + string(o.Status) + `","payment_status":"` + string(o.PaymentStatus) + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `","payment_status":"` + string(newPayment) + `"}`
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			logger.Error().Err(err).Int64("order_id", orderID).Msg("audit log write failed")
		}

		out = UpdateOrderStatusOutput{
			OrderID:       orderID,
			Status:        string(newStatus),
			PaymentStatus: string(newPayment),
			RefundNeeded:  refundNeeded,
		}
		return nil
	})

	if err != nil {
		return UpdateOrderStatusOutput{}, err
	}
	return out, nil
}

// 明細1件分の在庫戻し。SKU番号で引き、無い（古い明細）場合は商品名で引く。
func (u *OrderStatusUsecase) restockLine(ctx context.Context, r repo.TxRepos, it model.OrderItem) error {
	if it.ProductNumericID > 0 {
		err := r.Inventory().IncreaseStockByNumericID(ctx, it.ProductNumericID, it.Quantity)
		if err == nil {
			u.recordRestock(ctx, r, it)
			return nil
		}
		if err != repo.ErrNotFound {
			return err
		}
		//SKU番号で見つからなければ名前に落とす
	}

	if err := r.Inventory().IncreaseStockByName(ctx, it.NameSnapshot, it.Quantity); err != nil {
		return err
	}
	u.recordRestock(ctx, r, it)
	return nil
}

func (u *OrderStatusUsecase) recordRestock(ctx context.Context, r repo.TxRepos, it model.OrderItem) {
	adj := model.InventoryAdjustment{
		ProductNumericID: it.ProductNumericID,
		ActorUserID:      0,
		Delta:            it.Quantity,
		Reason:           "order cancelled",
		CreatedAt:        time.Now(),
	}
	if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
		logger.Error().Err(err).Msg("restock adjustment write failed")
	}
}
