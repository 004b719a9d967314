package loan

import (
	"net/http"

	"biblioteca/internal/httpx"
	"biblioteca/internal/platform/apperr"
)

type HTTPHandler struct {
	engine *Engine
}

func NewHTTPHandler(engine *Engine) *HTTPHandler {
	return &HTTPHandler{engine: engine}
}

type createReq struct {
	LibroID   int64 `json:"libro_id" validate:"required,gt=0"`
	ClienteID int64 `json:"cliente_id" validate:"required,gt=0"`
}

// Create handles POST /prestamos/
// @Summary Lend a book to a cliente
// @Tags prestamos
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Issuing user id"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /prestamos/ [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	issuer, ok := httpx.UserIDFrom(r)
	if !ok {
		httpx.WriteError(w, r, apperr.Unauthenticated("authentication required"))
		return
	}

	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	l, err := h.engine.CreateLoan(r.Context(), req.LibroID, req.ClienteID, issuer)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, l)
}

// Return handles PUT /prestamos/{id}/devolver
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	l, err := h.engine.ReturnLoan(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}

// List handles GET /prestamos/?estado=activo|devuelto
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.engine.ListLoans(r.Context(), r.URL.Query().Get("estado"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, loans, map[string]any{"total": len(loans)})
}

// ActiveForBook handles GET /libros/{id}/prestamos-activos
func (h *HTTPHandler) ActiveForBook(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	loans, err := h.engine.ListActiveLoansForBook(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, loans, map[string]any{"total": len(loans)})
}
