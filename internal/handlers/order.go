package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aidosk/shopapi/internal/logging"
	"github.com/aidosk/shopapi/internal/mykafka"
	"github.com/aidosk/shopapi/internal/service"
	"github.com/aidosk/shopapi/internal/transport"
)

type OrderHandler struct {
	Orders   *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	order, err := h.Orders.CreateOrder(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrProductNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			return err
		}
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"userID":  order.UserID,
		"orderID": order.ID,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Order created successfully",
		"order_id": order.ID,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid order id")
	}

	order, err := h.Orders.GetOrder(c.Request().Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetUserWithOrders(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil || userID <= 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid user id")
	}

	user, err := h.Orders.UserWithOrders(c.Request().Context(), uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}
