package auth

import (
	"context"
)

type contextKey string

var adminClaimsKey contextKey = "admin_claims"
var requestIDKey contextKey = "request_id"

func SetAdminClaims(ctx context.Context, claims *AdminClaims) context.Context {
	return context.WithValue(ctx, adminClaimsKey, claims)
}

// GetAdminClaims returns nil for unauthenticated requests, including those
// let through while no admin secret is configured.
func GetAdminClaims(ctx context.Context) *AdminClaims {
	if claims, ok := ctx.Value(adminClaimsKey).(*AdminClaims); ok {
		return claims
	}
	return nil
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
