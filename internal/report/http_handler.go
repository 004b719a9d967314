package report

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

// Loans handles GET /reportes/prestamos?search=&estado=
// @Summary Search the loan history
// @Tags reportes
// @Produce json
// @Param X-User-ID header int true "Admin user id"
// @Param search query string false "Substring of book, cliente or user"
// @Param estado query string false "activo or devuelto"
// @Success 200 {object} httpx.SuccessResponse
// @Router /reportes/prestamos [get]
func (h *HTTPHandler) Loans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loans, err := h.service.Loans(r.Context(), q.Get("search"), q.Get("estado"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, loans, map[string]any{"total": len(loans)})
}
