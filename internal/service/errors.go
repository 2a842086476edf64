package service

import "errors"

var (
	ErrValidation          = errors.New("validation")            // 422
	ErrDuplicateEmail      = errors.New("email already exists")  // 422
	ErrUserNotFound        = errors.New("user not found")        // 404 (400 on login)
	ErrInvalidCredentials  = errors.New("invalid credentials")   // 400
	ErrInvalidRefreshToken = errors.New("invalid refresh token") // 401
	ErrProductNotFound     = errors.New("product not found")     // 404
	ErrOrderNotFound       = errors.New("order not found")       // 404
)
