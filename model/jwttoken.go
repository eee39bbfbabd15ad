package model

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}
