package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

//配送料（固定）
const (
	deliveryPriceStandard int64 = 50
	deliveryPriceExpress  int64 = 150
)

type CheckoutUsecase struct {
	tx repo.TransactionManager
}

func NewCheckoutUsecase(tx repo.TransactionManager) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx}
}

type PaymentResultInput struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Email      string `json:"email"`
}

type CheckoutInput struct {
	OwnerEmail     string
	OwnerName      string
	FullName       string
	AddressLine1   string
	City           string
	PostalCode     string
	DeliveryMethod string
	PaymentMethod  string
	Notes          string
	//ゲートウェイ決済済みの場合のみ
	PaymentResult *PaymentResultInput
}

type OrderItemOutput struct {
	ProductNumericID int64  `json:"product_numeric_id"`
	Name             string `json:"name"`
	MRP              int64  `json:"mrp"`
	Price            int64  `json:"price"`
	Quantity         int64  `json:"quantity"`
	Image            string `json:"image"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	OrderReference string            `json:"order_reference"`
	OwnerEmail     string            `json:"owner_email"`
	OwnerName      string            `json:"owner_name"`
	Status         string            `json:"order_status"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentStatus  string            `json:"payment_status"`
	Subtotal       int64             `json:"subtotal"`
	DeliveryPrice  int64             `json:"delivery_price"`
	TotalPrice     int64             `json:"total_price"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []OrderItemOutput `json:"items"`
}

// 人間向けの注文番号
func newOrderReference() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// PlaceOrder はカートを注文スナップショットへ変換する。
// 明細は商品のコピーで、以後のカタログ変更の影響を受けない。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, ownerID int64, in CheckoutInput) (OrderOutput, error) {
	//ゲストでもemailは必須
	email := strings.TrimSpace(in.OwnerEmail)
	if email == "" || !strings.Contains(email, "@") {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid owner_email")
	}
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.AddressLine1) == "" ||
		strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.PostalCode) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "shipping info required")
	}

	var deliveryMethod model.DeliveryMethod
	var deliveryPrice int64
	switch model.DeliveryMethod(strings.ToUpper(strings.TrimSpace(in.DeliveryMethod))) {
	case model.DeliveryMethodStandard:
		deliveryMethod = model.DeliveryMethodStandard
		deliveryPrice = deliveryPriceStandard
	case model.DeliveryMethodExpress:
		deliveryMethod = model.DeliveryMethodExpress
		deliveryPrice = deliveryPriceExpress
	default:
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_method")
	}

	paymentMethod := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(in.PaymentMethod)))
	switch paymentMethod {
	case model.PaymentMethodGateway, model.PaymentMethodCashOnDelivery, model.PaymentMethodUPI:
	default:
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	var out OrderOutput

	//在庫減算〜注文作成〜カートクリアまでを1トランザクションで行う
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByOwnerID(ctx, ownerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		var subtotal int64 = 0
		now := time.Now()

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "product no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "out of stock")
			}

			//スナップショット（SKU番号込み。在庫戻しはこれで引く）
			orderItems = append(orderItems, model.OrderItem{
				ProductNumericID:  p.NumericID,
				NameSnapshot:      p.Name,
				MRPSnapshot:       p.MRP,
				UnitPriceSnapshot: p.DiscountedPrice,
				Quantity:          ci.Quantity,
				ImageSnapshot:     p.Image,
				CreatedAt:         now,
			})

			subtotal += p.DiscountedPrice * ci.Quantity
		}

		//作成時の不変条件: total = subtotal + delivery
		total := subtotal + deliveryPrice

		paymentStatus := model.PaymentStatusPending
		var paymentResult model.PaymentResult
		if in.PaymentResult != nil {
			paymentResult = model.PaymentResult{
				ID:         in.PaymentResult.ID,
				Status:     in.PaymentResult.Status,
				UpdateTime: in.PaymentResult.UpdateTime,
				Email:      in.PaymentResult.Email,
			}
			if strings.EqualFold(in.PaymentResult.Status, "COMPLETED") {
				paymentStatus = model.PaymentStatusCompleted
			}
		}

		order := model.Order{
			UserID:     ownerID,
			OwnerEmail: email,
			OwnerName:  strings.TrimSpace(in.OwnerName),
			Shipping: model.ShippingInfo{
				FullName:     strings.TrimSpace(in.FullName),
				AddressLine1: strings.TrimSpace(in.AddressLine1),
				City:         strings.TrimSpace(in.City),
				PostalCode:   strings.TrimSpace(in.PostalCode),
			},
			DeliveryMethod: deliveryMethod,
			PaymentMethod:  paymentMethod,
			PaymentStatus:  paymentStatus,
			PaymentResult:  paymentResult,
			Subtotal:       subtotal,
			DeliveryPrice:  deliveryPrice,
			TotalPrice:     total,
			Status:         model.OrderStatusProcessing,
			OrderReference: newOrderReference(),
			Notes:          in.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//再注文防止にカートをクリア
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductNumericID: it.ProductNumericID,
			Name:             it.NameSnapshot,
			MRP:              it.MRPSnapshot,
			Price:            it.UnitPriceSnapshot,
			Quantity:         it.Quantity,
			Image:            imageDataURI(it.ImageSnapshot),
		})
	}

	return OrderOutput{
		ID:             o.ID,
		OrderReference: o.OrderReference,
		OwnerEmail:     o.OwnerEmail,
		OwnerName:      o.OwnerName,
		Status:         string(o.Status),
		PaymentMethod:  string(o.PaymentMethod),
		PaymentStatus:  string(o.PaymentStatus),
		Subtotal:       o.Subtotal,
		DeliveryPrice:  o.DeliveryPrice,
		TotalPrice:     o.TotalPrice,
		CreatedAt:      o.CreatedAt,
		Items:          outItems,
	}
}
