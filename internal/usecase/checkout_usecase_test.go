package usecase_test

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type checkoutFixture struct {
	tx        *TxManagerMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	products  *ProductRepoMock
	inventory *InventoryRepoMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	uc        *usecase.CheckoutUsecase
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		tx:        new(TxManagerMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		products:  new(ProductRepoMock),
		inventory: new(InventoryRepoMock),
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
	}
	f.tx.Repos = &TxReposMock{
		orders:     f.orders,
		orderItems: f.items,
		carts:      f.carts,
		cartItems:  f.cartItems,
		inventory:  f.inventory,
		products:   f.products,
	}
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.uc = usecase.NewCheckoutUsecase(f.tx)
	return f
}

func validCheckoutInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		OwnerEmail:     "guest@example.com",
		OwnerName:      "Guest",
		FullName:       "Guest Guestsson",
		AddressLine1:   "1 Main St",
		City:           "Springfield",
		PostalCode:     "12345",
		DeliveryMethod: "STANDARD",
		PaymentMethod:  "COD",
	}
}

// =====================
// 入力検証
// =====================

func TestCheckoutUsecase_PlaceOrder_EmailRequiredEvenForGuests(t *testing.T) {
	f := newCheckoutFixture()

	in := validCheckoutInput()
	in.OwnerEmail = "not-an-email"

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "invalid owner_email")
}

func TestCheckoutUsecase_PlaceOrder_InvalidDeliveryMethod(t *testing.T) {
	f := newCheckoutFixture()

	in := validCheckoutInput()
	in.DeliveryMethod = "DRONE"

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "invalid delivery_method")
}

// =====================
// 注文作成
// =====================

func TestCheckoutUsecase_PlaceOrder_TotalIsSubtotalPlusDelivery(t *testing.T) {
	f := newCheckoutFixture()

	f.carts.On("FindByOwnerID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, OwnerID: 1}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{CartID: 10, ProductID: 101, Quantity: 2},
		{CartID: 10, ProductID: 102, Quantity: 1},
	}, nil)

	f.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, NumericID: 5, Name: "Coffee", MRP: 500, DiscountedPrice: 450, Stock: 9}, nil)
	f.products.On("FindByID", mock.Anything, int64(102)).
		Return(model.Product{ID: 102, NumericID: 6, Name: "Mug", MRP: 200, DiscountedPrice: 200, Stock: 4}, nil)

	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(2)).Return(true, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(102), int64(1)).Return(true, nil)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Subtotal == 2*450+200 &&
			o.DeliveryPrice == 50 &&
			o.TotalPrice == o.Subtotal+o.DeliveryPrice &&
			o.Status == model.OrderStatusProcessing &&
			o.PaymentStatus == model.PaymentStatusPending &&
			strings.HasPrefix(o.OrderReference, "ORD-")
	})).Return(int64(55), nil)

	f.items.On("CreateBulk", mock.Anything, int64(55), mock.MatchedBy(func(items []model.OrderItem) bool {
		// スナップショットはSKU番号込み
		return len(items) == 2 && items[0].ProductNumericID == 5 && items[1].ProductNumericID == 6
	})).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(10)).Return(nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, validCheckoutInput())
	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)
	assert.Equal(t, int64(1100), out.Subtotal)
	assert.Equal(t, int64(1150), out.TotalPrice)
	assert.Equal(t, 2, len(out.Items))

	f.orders.AssertExpectations(t)
	f.items.AssertExpectations(t)
	f.carts.AssertExpectations(t)
}

func TestCheckoutUsecase_PlaceOrder_OutOfStock_NoOrderCreated(t *testing.T) {
	f := newCheckoutFixture()

	f.carts.On("FindByOwnerID", mock.Anything, int64(1)).Return(model.Cart{ID: 10}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{CartID: 10, ProductID: 101, Quantity: 99},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, NumericID: 5, Name: "Coffee", DiscountedPrice: 450, Stock: 1}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(99)).Return(false, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, validCheckoutInput())
	assertErrContains(t, err, "out of stock")

	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	f.carts.On("FindByOwnerID", mock.Anything, int64(1)).Return(model.Cart{ID: 10}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, validCheckoutInput())
	assertErrContains(t, err, "cart empty")
}

func TestCheckoutUsecase_PlaceOrder_MissingCart(t *testing.T) {
	f := newCheckoutFixture()

	f.carts.On("FindByOwnerID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := f.uc.PlaceOrder(context.Background(), 1, validCheckoutInput())
	assertErrContains(t, err, "cart empty")
}

func TestCheckoutUsecase_PlaceOrder_GatewayCompletedPayment(t *testing.T) {
	f := newCheckoutFixture()

	f.carts.On("FindByOwnerID", mock.Anything, int64(1)).Return(model.Cart{ID: 10}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{CartID: 10, ProductID: 101, Quantity: 1},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, NumericID: 5, Name: "Coffee", DiscountedPrice: 450, Stock: 9}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(1)).Return(true, nil)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.PaymentStatus == model.PaymentStatusCompleted && o.PaymentResult.ID == "pay_1"
	})).Return(int64(56), nil)
	f.items.On("CreateBulk", mock.Anything, int64(56), mock.Anything).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(10)).Return(nil)

	in := validCheckoutInput()
	in.PaymentMethod = "GATEWAY"
	in.PaymentResult = &usecase.PaymentResultInput{ID: "pay_1", Status: "COMPLETED"}

	out, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assert.NoError(t, err)
	assert.Equal(t, "COMPLETED", out.PaymentStatus)

	f.orders.AssertExpectations(t)
}
