package role

import (
	"net/http"

	"biblioteca/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /roles/
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /roles/ [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, roles, nil)
}
