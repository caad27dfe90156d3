package handler

import (
	"io"
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products の管理API（multipartで画像を受け取る）
type AdminProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.CatalogUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// GET /products は公開なので、管理ルートは個別にガードを付ける
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	auth := middleware.AuthJWT(cfg)
	admin := middleware.AdminRoleGuard()

	e.POST("/products", h.createProduct, auth, admin)
	e.PUT("/products/:id", h.updateProduct, auth, admin)
	e.DELETE("/products/:id", h.deleteProduct, auth, admin)
	e.POST("/products/restore/:archivedId", h.restoreProduct, auth, admin)
	e.GET("/deleted-products", h.listDeleted, auth, admin)
}

// multipartの image フィールドを読む。未指定なら nil
func readImageFile(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	mrp, err := strconv.ParseInt(c.FormValue("mrp"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid mrp"})
	}

	discount := int64(0)
	if v := c.FormValue("discount_percent"); v != "" {
		discount, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid discount_percent"})
		}
	}

	stock := int64(0)
	if v := c.FormValue("stock"); v != "" {
		stock, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid stock"})
		}
	}

	image, err := readImageFile(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid image"})
	}

	out, err := h.uc.CreateProduct(c.Request().Context(), usecase.CreateProductInput{
		Name:            c.FormValue("name"),
		Description:     c.FormValue("description"),
		MRP:             mrp,
		DiscountPercent: discount,
		Category:        c.FormValue("category"),
		Stock:           stock,
		Image:           image,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	params, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var in usecase.UpdateProductInput

	//送られてきたフィールドだけ更新する
	if vs, ok := params["name"]; ok && len(vs) > 0 {
		in.Name = &vs[0]
	}
	if vs, ok := params["description"]; ok && len(vs) > 0 {
		in.Description = &vs[0]
	}
	if vs, ok := params["category"]; ok && len(vs) > 0 {
		in.Category = &vs[0]
	}
	if vs, ok := params["mrp"]; ok && len(vs) > 0 {
		x, err := strconv.ParseInt(vs[0], 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid mrp"})
		}
		in.MRP = &x
	}
	if vs, ok := params["discount_percent"]; ok && len(vs) > 0 {
		x, err := strconv.ParseInt(vs[0], 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid discount_percent"})
		}
		in.DiscountPercent = &x
	}
	if vs, ok := params["stock"]; ok && len(vs) > 0 {
		x, err := strconv.ParseInt(vs[0], 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid stock"})
		}
		in.Stock = &x
	}

	image, err := readImageFile(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid image"})
	}
	in.Image = image

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.UpdateProduct(c.Request().Context(), adminID, id, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.ArchiveProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminProductHandler) restoreProduct(c echo.Context) error {
	archivedID, err := strconv.ParseInt(c.Param("archivedId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.RestoreProduct(c.Request().Context(), adminID, archivedID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) listDeleted(c echo.Context) error {
	out, err := h.uc.ListArchived(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
