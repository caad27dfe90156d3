package usecase

import (
	repo "app/internal/repository"
	"context"
	"net/http"
)

// 明細ごとの状態。照会時に商品が消えていても明細単位で劣化させるだけにする。
const (
	CartLineAvailable = "AVAILABLE"
	CartLineNotFound  = "NOT_FOUND"
	CartLineError     = "ERROR"
)

const unknownProductName = "Unknown Product"

// CartUsecase は /carts の業務ロジックです。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// カート明細＋カタログの現在値。Statusが劣化状態を示す。
type CartLineResponse struct {
	ProductID       int64  `json:"product_id"`
	NumericID       int64  `json:"numeric_id"`
	Name            string `json:"name"`
	MRP             int64  `json:"mrp"`
	DiscountedPrice int64  `json:"discounted_price"`
	Image           string `json:"image"`
	Stock           int64  `json:"stock"`
	Quantity        int64  `json:"quantity"`
	Status          string `json:"status"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total int64              `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// AddOrMerge はカートに追加（同一商品は数量加算）。
// 商品参照の検証はここだけ。以後の読み出しでは再検証しない。
func (u *CartUsecase) AddOrMerge(ctx context.Context, ownerID int64, in AddCartInput) (CartResponse, error) {
	if ownerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid owner_id")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//商品チェック（追加時のみ）
	_, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByOwnerID(ctx, ownerID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Upsert（同一商品は加算）
	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// GetEnriched はカートをカタログの現在値で引き当てて返す。
// 商品が消えた明細は劣化させて返すだけで、リクエスト全体は失敗させない。
func (u *CartUsecase) GetEnriched(ctx context.Context, ownerID int64) (CartResponse, error) {
	if ownerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid owner_id")
	}

	cart, err := u.cartRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		//カート未作成は空で返す
		return CartResponse{Items: []CartLineResponse{}}, nil
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// 数量変更。数量は1以上。在庫上限のクランプは呼び出し側の責務。
func (u *CartUsecase) SetQuantity(ctx context.Context, ownerID int64, productID int64, qty int64) (CartResponse, error) {
	if ownerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid owner_id")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if qty < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	cart, err := u.cartRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.UpdateQuantityByCartAndProduct(ctx, cart.ID, productID, qty); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// 明細削除
func (u *CartUsecase) Remove(ctx context.Context, ownerID int64, productID int64) (CartResponse, error) {
	if ownerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid owner_id")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	cart, err := u.cartRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.DeleteByCartAndProduct(ctx, cart.ID, productID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// cartIDの明細を商品引き当てして組み立てる。
// 引き当て失敗は明細単位のソフト失敗にして、参照と数量は必ず残す。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartLineResponse, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err == repo.ErrNotFound {
			respItems = append(respItems, CartLineResponse{
				ProductID: it.ProductID,
				Name:      unknownProductName,
				Quantity:  it.Quantity,
				Status:    CartLineNotFound,
			})
			continue
		}
		if err != nil {
			logger.Error().Err(err).Int64("product_id", it.ProductID).Msg("cart line lookup failed")
			respItems = append(respItems, CartLineResponse{
				ProductID: it.ProductID,
				Name:      unknownProductName,
				Quantity:  it.Quantity,
				Status:    CartLineError,
			})
			continue
		}

		respItems = append(respItems, CartLineResponse{
			ProductID:       it.ProductID,
			NumericID:       p.NumericID,
			Name:            p.Name,
			MRP:             p.MRP,
			DiscountedPrice: p.DiscountedPrice,
			Image:           imageDataURI(p.Image),
			Stock:           p.Stock,
			Quantity:        it.Quantity,
			Status:          CartLineAvailable,
		})

		total += p.DiscountedPrice * it.Quantity
	}

	return CartResponse{Items: respItems, Total: total}, nil
}
