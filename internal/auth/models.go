package auth

import (
	"github.com/google/uuid"
)

// SignupRequest: запрос на регистрацию
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SignupResponse: ответ на успешную регистрацию
type SignupResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// LoginRequest: запрос на вход
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse: ответ на успешный вход
type LoginResponse struct {
	Message   string  `json:"message"`
	Token     string  `json:"token"`
	TokenType string  `json:"token_type"`
	ExpiresIn int64   `json:"expires_in"`
	User      UserDTO `json:"user"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

// Claims: данные из проверенного access token
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// ErrorResponse: формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
