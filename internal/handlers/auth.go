package handlers

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/jwt"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
)

// Tokener extracts the caller identity from a request.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// authenticate returns the caller claims or writes 401.
func authenticate(w http.ResponseWriter, r *http.Request, tokener Tokener) (*jwt.Claims, bool) {
	ctx := r.Context()

	tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		logger.Log.Errorw("failed to get token from request", "error", err)
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	claims, err := tokener.GetClaims(ctx, tokenStr)
	if err != nil {
		logger.Log.Errorw("failed to get claims from token", "error", err)
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return claims, true
}
