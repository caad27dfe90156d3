package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

//SKU番号のsequence名
const productSequence = "product_numeric_id"

//保存形式はエンコード済みバイト列、表示形式はdata URI
const imageDataPrefix = "data:image/png;base64,"

type CatalogUsecase struct {
	productRepo   repo.ProductRepository
	counterRepo   repo.CounterRepository
	archiveRepo   repo.ArchiveRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
}

// DI
func NewCatalogUsecase(
	productRepo repo.ProductRepository,
	counterRepo repo.CounterRepository,
	archiveRepo repo.ArchiveRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		productRepo:   productRepo,
		counterRepo:   counterRepo,
		archiveRepo:   archiveRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
	}
}

// 表示用の商品。画像はそのまま使えるdata URIにして返す。
type ProductView struct {
	ID              int64     `json:"id"`
	NumericID       int64     `json:"numeric_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	MRP             int64     `json:"mrp"`
	DiscountPercent int64     `json:"discount_percent"`
	DiscountedPrice int64     `json:"discounted_price"`
	Category        string    `json:"category"`
	Image           string    `json:"image"`
	Stock           int64     `json:"stock"`
	CreatedAt       time.Time `json:"created_at"`
}

// アーカイブ済み商品の表示用。
type ArchivedProductView struct {
	ID              int64     `json:"id"`
	NumericID       int64     `json:"numeric_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	MRP             int64     `json:"mrp"`
	DiscountPercent int64     `json:"discount_percent"`
	DiscountedPrice int64     `json:"discounted_price"`
	Category        string    `json:"category"`
	Image           string    `json:"image"`
	Stock           int64     `json:"stock"`
	ArchivedAt      time.Time `json:"archived_at"`
}

type CreateProductInput struct {
	Name            string
	Description     string
	MRP             int64
	DiscountPercent int64
	Category        string
	Stock           int64
	Image           []byte
}

// 部分更新。nilのフィールドは現状維持。
type UpdateProductInput struct {
	Name            *string
	Description     *string
	MRP             *int64
	DiscountPercent *int64
	Category        *string
	Stock           *int64
	Image           []byte
}

// 割引後価格はサーバー側で必ず導出する
func deriveDiscountedPrice(mrp int64, discountPercent int64) int64 {
	return mrp - mrp*discountPercent/100
}

func imageDataURI(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return imageDataPrefix + base64.StdEncoding.EncodeToString(b)
}

func toProductView(p model.Product) ProductView {
	return ProductView{
		ID:              p.ID,
		NumericID:       p.NumericID,
		Name:            p.Name,
		Description:     p.Description,
		MRP:             p.MRP,
		DiscountPercent: p.DiscountPercent,
		DiscountedPrice: p.DiscountedPrice,
		Category:        p.Category,
		Image:           imageDataURI(p.Image),
		Stock:           p.Stock,
		CreatedAt:       p.CreatedAt,
	}
}

// 稼働中の商品一覧（表示用フォーマット済み）
func (u *CatalogUsecase) ListActive(ctx context.Context) ([]ProductView, error) {
	products, err := u.productRepo.ListActive(ctx)
	if err != nil {
		return []ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views, nil
}

// CreateProduct は採番→保存の順で行う。
// 採番に失敗したら商品は一切保存しない。
func (u *CatalogUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (ProductView, error) {
	if strings.TrimSpace(in.Name) == "" {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.MRP < 0 {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "mrp must be >= 0")
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "discount_percent must be 0-100")
	}
	if in.Stock < 0 {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	numericID, err := u.counterRepo.Next(ctx, productSequence, 0)
	if err != nil {
		logger.Error().Err(err).Msg("numeric id allocation failed")
		return ProductView{}, NewHTTPError(http.StatusInternalServerError, "id allocation failed")
	}

	now := time.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		NumericID:       numericID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		MRP:             in.MRP,
		DiscountPercent: in.DiscountPercent,
		DiscountedPrice: deriveDiscountedPrice(in.MRP, in.DiscountPercent),
		Category:        in.Category,
		Image:           in.Image,
		Stock:           in.Stock,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProductView(p), nil
}

// UpdateProduct は部分更新。指定されなかったフィールドは前の値を保つ。
// 在庫を書き換えた場合は調整履歴も残す。
func (u *CatalogUsecase) UpdateProduct(ctx context.Context, actorUserID int64, productID int64, in UpdateProductInput) (ProductView, error) {
	if productID <= 0 {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductView{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	prevStock := p.Stock

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return ProductView{}, NewHTTPError(http.StatusBadRequest, "name required")
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.MRP != nil {
		if *in.MRP < 0 {
			return ProductView{}, NewHTTPError(http.StatusBadRequest, "mrp must be >= 0")
		}
		p.MRP = *in.MRP
	}
	if in.DiscountPercent != nil {
		if *in.DiscountPercent < 0 || *in.DiscountPercent > 100 {
			return ProductView{}, NewHTTPError(http.StatusBadRequest, "discount_percent must be 0-100")
		}
		p.DiscountPercent = *in.DiscountPercent
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return ProductView{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
		}
		p.Stock = *in.Stock
	}
	if len(in.Image) > 0 {
		p.Image = in.Image
	}

	//入力がどうであれ導出し直す
	p.DiscountedPrice = deriveDiscountedPrice(p.MRP, p.DiscountPercent)

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return ProductView{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//在庫を直接書き換えた分も調整履歴に残す。履歴書き込みの失敗で更新自体は巻き戻さない
	if p.Stock != prevStock {
		adj := model.InventoryAdjustment{
			ProductNumericID: p.NumericID,
			ActorUserID:      actorUserID,
			Delta:            p.Stock - prevStock,
			Reason:           "admin stock edit",
			CreatedAt:        time.Now(),
		}
		if err := u.inventoryRepo.CreateAdjustment(ctx, adj); err != nil {
			logger.Error().Err(err).Int64("product_id", productID).Msg("stock adjustment write failed")
		}
	}

	return toProductView(p), nil
}

// ArchiveProduct は「保管してから消す」の順を守る。
// 途中で落ちても商品が失われることはない（最悪、両方に残る）。
func (u *CatalogUsecase) ArchiveProduct(ctx context.Context, actorUserID int64, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//先に保管
	if err := u.archiveRepo.CreateProduct(ctx, model.ArchivedProduct{
		NumericID:         p.NumericID,
		Name:              p.Name,
		Description:       p.Description,
		MRP:               p.MRP,
		DiscountPercent:   p.DiscountPercent,
		DiscountedPrice:   p.DiscountedPrice,
		Category:          p.Category,
		Image:             p.Image,
		Stock:             p.Stock,
		OriginalCreatedAt: p.CreatedAt,
		ArchivedAt:        time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//保管できてから消す
	if err := u.productRepo.DeleteByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionArchiveProduct,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   fmt.Sprintf(`{"numeric_id":%d,"name":%q}`, p.NumericID, p.Name),
		AfterJSON:    `{}`,
		CreatedAt:    time.Now(),
	}); err != nil {
		logger.Error().Err(err).Int64("product_id", productID).Msg("audit log write failed")
	}

	return nil
}

// RestoreProduct はアーカイブから稼働中へ戻す。
// 新しいDB IDが振られる（SKU番号はそのまま）。成功したらアーカイブ側を消す。
func (u *CatalogUsecase) RestoreProduct(ctx context.Context, actorUserID int64, archivedID int64) (ProductView, error) {
	if archivedID <= 0 {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	a, err := u.archiveRepo.FindProductByID(ctx, archivedID)
	if err == repo.ErrNotFound {
		return ProductView{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		NumericID:       a.NumericID,
		Name:            a.Name,
		Description:     a.Description,
		MRP:             a.MRP,
		DiscountPercent: a.DiscountPercent,
		DiscountedPrice: a.DiscountedPrice,
		Category:        a.Category,
		Image:           a.Image,
		Stock:           a.Stock,
		CreatedAt:       a.OriginalCreatedAt,
		UpdatedAt:       time.Now(),
	})
	if err != nil {
		return ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//復元できてからアーカイブ側を消す
	if err := u.archiveRepo.DeleteProductByID(ctx, archivedID); err != nil {
		logger.Error().Err(err).Int64("archived_id", archivedID).Msg("archived copy cleanup failed")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionRestoreProduct,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   p.ID,
		BeforeJSON:   `{}`,
		AfterJSON:    fmt.Sprintf(`{"numeric_id":%d,"name":%q}`, p.NumericID, p.Name),
		CreatedAt:    time.Now(),
	}); err != nil {
		logger.Error().Err(err).Int64("product_id", p.ID).Msg("audit log write failed")
	}

	return toProductView(p), nil
}

// アーカイブ済み商品一覧（表示用フォーマット済み）
func (u *CatalogUsecase) ListArchived(ctx context.Context) ([]ArchivedProductView, error) {
	products, err := u.archiveRepo.ListProducts(ctx)
	if err != nil {
		return []ArchivedProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]ArchivedProductView, 0, len(products))
	for _, a := range products {
		views = append(views, ArchivedProductView{
			ID:              a.ID,
			NumericID:       a.NumericID,
			Name:            a.Name,
			Description:     a.Description,
			MRP:             a.MRP,
			DiscountPercent: a.DiscountPercent,
			DiscountedPrice: a.DiscountedPrice,
			Category:        a.Category,
			Image:           imageDataURI(a.Image),
			Stock:           a.Stock,
			ArchivedAt:      a.ArchivedAt,
		})
	}
	return views, nil
}

// HealNumericSequence は起動時のメンテナンス。
// カウンターが既存商品のSKU番号より遅れていたら追いつかせる。何度実行しても安全。
func (u *CatalogUsecase) HealNumericSequence(ctx context.Context) error {
	max, err := u.productRepo.MaxNumericID(ctx)
	if err != nil {
		return err
	}
	return u.counterRepo.Reseed(ctx, productSequence, max)
}
