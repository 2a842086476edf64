package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/aidosk/shopapi/internal/models"
	"github.com/aidosk/shopapi/internal/mykafka"
	"github.com/aidosk/shopapi/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type productRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func (r productRequest) validate() error {
	if r.Name == "" {
		return errors.New("name required")
	}
	if r.Price < 0 {
		return errors.New("price must be >= 0")
	}
	return nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid product id")
	}

	var product models.Product
	if err := h.DB.WithContext(c.Request().Context()).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)
	ctx := c.Request().Context()

	var total int64
	if err := h.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return err
	}

	var items []models.Product
	if err := h.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	var existing models.Product
	if err := h.DB.WithContext(ctx).Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Product name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	product := models.Product{Name: req.Name, Price: req.Price}
	if err := h.DB.WithContext(ctx).Create(&product).Error; err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid product id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return err
	}

	product.Name = req.Name
	product.Price = req.Price
	if err := h.DB.WithContext(ctx).Save(&product).Error; err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid product id")
	}

	if err := h.DB.WithContext(c.Request().Context()).Delete(&models.Product{}, id).Error; err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
