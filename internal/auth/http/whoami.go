package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/craftci/gatekeeper/internal/auth/service"
	"github.com/craftci/gatekeeper/internal/auth/store"
	"github.com/craftci/gatekeeper/pkg/httpx"
	"github.com/craftci/gatekeeper/pkg/jwtx"
	"github.com/craftci/gatekeeper/pkg/slogx"
)

// WhoamiHandler serves GET /whoami: the account behind a bearer token.
type WhoamiHandler struct {
	Store  store.Store
	Tokens *service.TokenService
	Logger *slog.Logger
}

// WhoamiResponse describes the authenticated account.
type WhoamiResponse struct {
	ID        string `json:"id"`
	GitHubID  int64  `json:"github_id"`
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Handle godoc
//
//	@Summary		Current account
//	@Description	Returns the account bound to the presented access token. Fails
//	@Description	with 401 if the token's record has been revoked or reaped even
//	@Description	when the signature is still valid.
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	WhoamiResponse
//	@Failure		401	{string}	string	"invalid or revoked token"
//	@Router			/whoami [get].
func (h *WhoamiHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := ctx.Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok {
		httpx.WriteText(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Signature checks out; the jti record must still exist.
	rec, err := h.Tokens.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteText(w, http.StatusUnauthorized, "token revoked")
			return
		}
		log.Error("token lookup failed", "err", err)
		httpx.WriteText(w, http.StatusInternalServerError, "internal error")
		return
	}

	account, err := h.Store.Accounts().GetAccountByID(ctx, rec.AccountID)
	if err != nil {
		log.Error("account lookup failed", "err", err)
		httpx.WriteText(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, WhoamiResponse{
		ID:        account.ID,
		GitHubID:  account.GitHubID,
		Login:     account.Login,
		Name:      account.Name,
		AvatarURL: account.AvatarURL,
	})
}
