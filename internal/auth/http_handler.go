package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"biblioteca/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
// @Summary User login
// @Description Verify credentials and return the user identity to send as X-User-ID
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginReq true "Login request"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			slog.Info("login rejected", "username", req.Username, "request_id", httpx.RequestIDFrom(r))
		}
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{"user": u}, nil)
}
