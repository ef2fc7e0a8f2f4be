package core

import "github.com/golang-jwt/jwt/v4"

const AdminRole = "admin"

// AdminClaims 管理端 JWT 內容
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
