package jwtauth

import (
	"shipcertify/internal/platform/middleware"
)

// JWTServiceAdapter converts jwtauth claims into the shape the auth
// middleware expects.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{
		SubjectID:    claims.SubjectID,
		Organization: claims.Organization,
	}, nil
}
