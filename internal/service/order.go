package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aidosk/shopapi/internal/logging"
	"github.com/aidosk/shopapi/internal/models"
	"github.com/aidosk/shopapi/internal/transport"
)

type OrderService struct {
	DB *gorm.DB
}

// CreateOrder persists the order and all of its lines in one transaction.
// Any missing product rolls the whole thing back.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_order", "user_id", req.UserID)

	if len(req.Products) == 0 {
		return nil, fmt.Errorf("%w: products required", ErrValidation)
	}
	seen := make(map[uint]struct{}, len(req.Products))
	for _, line := range req.Products {
		if line.Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		// One line per product, the order_products key is (order_id, product_id).
		if _, dup := seen[line.ProductID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %d", ErrValidation, line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
	}

	var order models.Order
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		order = models.Order{UserID: user.ID}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range req.Products {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrProductNotFound, line.ProductID)
				}
				return err
			}

			assoc := models.OrderProduct{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(&assoc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		l.Warn("create_order_failed", "error", txErr)
		return nil, txErr
	}

	l.Info("order_created", "order_id", order.ID)
	return &order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*transport.OrderResponse, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	lines, err := s.orderLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &transport.OrderResponse{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Products: lines,
	}, nil
}

// UserWithOrders resolves a user and all of their orders with product lines.
func (s *OrderService) UserWithOrders(ctx context.Context, userID uint) (*transport.UserWithOrdersResponse, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var orders []models.Order
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	resp := transport.UserWithOrdersResponse{
		UserResponse: transport.UserResponse{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
		Orders: make([]transport.OrderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		lines, err := s.orderLines(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		resp.Orders = append(resp.Orders, transport.OrderResponse{
			OrderID:  o.ID,
			UserID:   o.UserID,
			Products: lines,
		})
	}

	return &resp, nil
}

func (s *OrderService) orderLines(ctx context.Context, orderID uint) ([]transport.OrderLine, error) {
	var lines []transport.OrderLine
	err := s.DB.WithContext(ctx).
		Table("order_products").
		Select("order_products.product_id, products.name AS product_name, order_products.quantity").
		Joins("JOIN products ON products.id = order_products.product_id").
		Where("order_products.order_id = ?", orderID).
		Order("order_products.product_id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []transport.OrderLine{}
	}
	return lines, nil
}
