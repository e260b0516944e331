package httpx

import "context"

type ctxKey string

const (
	// CtxKeyAccountID carries the authenticated account id (JWT subject).
	CtxKeyAccountID ctxKey = "account_id"
	// CtxKeyClaims carries the full jwtx.Claims for downstream handlers.
	CtxKeyClaims ctxKey = "claims"
)

// AccountIDFromContext returns the authenticated account id, or "".
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return v
	}
	return ""
}
