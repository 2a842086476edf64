package transport

import "time"

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type CreateOrderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID   uint              `json:"user_id"`
	Products []CreateOrderLine `json:"products"`
}

type OrderLine struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    uint   `json:"quantity"`
}

type OrderResponse struct {
	OrderID  uint        `json:"order_id"`
	UserID   uint        `json:"user_id"`
	Products []OrderLine `json:"products"`
}

type UserWithOrdersResponse struct {
	UserResponse
	Orders []OrderResponse `json:"orders"`
}
