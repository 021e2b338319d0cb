package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of a bearer token. Only the user id is carried;
// everything else about the user is looked up on every request.
type AccessClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}
