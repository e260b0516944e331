package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/craftci/gatekeeper/internal/auth/service"
	"github.com/craftci/gatekeeper/pkg/httpx"
	"github.com/craftci/gatekeeper/pkg/slogx"
)

// HandshakeHandler serves the authorize/callback/token-exchange surface.
type HandshakeHandler struct {
	Handshake *service.Handshake
	Logger    *slog.Logger
}

// TokenResponse is the success body for the API flow.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// HandleAuthorize godoc
//
//	@Summary		Start an OAuth handshake
//	@Description	Mints a single-use CSRF state, optionally remembering a post-login
//	@Description	redirect target, and redirects the client to the provider's
//	@Description	authorization endpoint.
//	@Tags			Handshake
//	@Param			redirect_target	query	string	false	"URI to send the browser to after a successful handshake (must be https and on the host allow-list)"
//	@Success		302	{string}	string	"Location: provider authorize URL"
//	@Failure		500	{string}	string	"internal error"
//	@Router			/authorize [get].
func (h *HandshakeHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	target := r.URL.Query().Get("redirect_target")

	authURL, err := h.Handshake.Authorize(ctx, target)
	if err != nil {
		log.Error("authorize failed", "err", err)
		httpx.WriteText(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.NoCache(w)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		Complete an OAuth handshake
//	@Description	Consumes the single-use state, validates any stored redirect
//	@Description	target, exchanges the code with the provider and checks scope
//	@Description	sufficiency. On success either redirects to the validated target
//	@Description	or returns the internal access token as JSON.
//	@Tags			Handshake
//	@Produce		json
//	@Param			code	query		string	true	"Authorization code from the provider"
//	@Param			state	query		string	true	"State nonce issued at /authorize"
//	@Success		200		{object}	TokenResponse
//	@Success		302		{string}	string	"Location: validated redirect target or insufficient-access page"
//	@Failure		400		{string}	string	"state mismatch"
//	@Failure		401		{string}	string	"target URI not allowed"
//	@Failure		403		{string}	string	"not a recognized user"
//	@Failure		422		{string}	string	"missing authorization code"
//	@Router			/callback [get].
func (h *HandshakeHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	q := r.URL.Query()
	res, err := h.Handshake.Callback(ctx, q.Get("code"), q.Get("state"))
	if err != nil {
		h.writeHandshakeError(w, log, err)
		return
	}

	httpx.NoCache(w)
	if res.RedirectTo != "" {
		http.Redirect(w, r, res.RedirectTo, http.StatusFound)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: res.AccessToken})
}

// HandleTokenExchange godoc
//
//	@Summary		Exchange a provider token for an internal token
//	@Description	Non-browser variant of the handshake: the caller already holds a
//	@Description	provider access token and trades it directly. Accepts a JSON body
//	@Description	or form data with an external_token field.
//	@Tags			Handshake
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{external_token=string}	true	"Provider access token"
//	@Success		200		{object}	TokenResponse
//	@Failure		403		{string}	string	"not a recognized user"
//	@Failure		422		{string}	string	"missing external token"
//	@Router			/token-exchange [post].
func (h *HandshakeHandler) HandleTokenExchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	externalToken := readExternalToken(r)

	token, err := h.Handshake.TokenExchange(ctx, externalToken)
	if err != nil {
		h.writeHandshakeError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

// readExternalToken pulls the provider token from a JSON body or, failing
// that, form data.
func readExternalToken(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var body struct {
			ExternalToken string `json:"external_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			return strings.TrimSpace(body.ExternalToken)
		}
		return ""
	}

	if err := r.ParseForm(); err != nil {
		return ""
	}
	return strings.TrimSpace(r.Form.Get("external_token"))
}

// writeHandshakeError is the single mapping from service sentinels to HTTP
// terminal states. The fixed bodies are part of the API contract; nothing
// caller-supplied is ever echoed.
func (h *HandshakeHandler) writeHandshakeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCode):
		httpx.WriteText(w, http.StatusUnprocessableEntity, "missing authorization code")
	case errors.Is(err, service.ErrMissingToken):
		httpx.WriteText(w, http.StatusUnprocessableEntity, "missing external token")
	case errors.Is(err, service.ErrStateMismatch):
		httpx.WriteText(w, http.StatusBadRequest, "state mismatch")
	case errors.Is(err, service.ErrTargetNotAllowed):
		httpx.WriteText(w, http.StatusUnauthorized, "target URI not allowed")
	case errors.Is(err, service.ErrNotRecognized):
		httpx.WriteText(w, http.StatusForbidden, "not a recognized user")
	default:
		log.Error("handshake failed", "err", err)
		httpx.WriteText(w, http.StatusInternalServerError, "internal error")
	}
}
