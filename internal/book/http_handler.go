package book

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

type createReq struct {
	Titulo             string  `json:"titulo" validate:"required,max=255"`
	Autor              string  `json:"autor" validate:"required,max=255"`
	Editorial          *string `json:"editorial" validate:"omitempty,max=255"`
	AnioPublicacion    *int    `json:"anio_publicacion" validate:"omitempty,gte=0,lte=9999"`
	ISBN               string  `json:"isbn" validate:"required,isbn"`
	CantidadDisponible *int    `json:"cantidad_disponible" validate:"omitempty,lte=2147483647"`
}

type updateReq struct {
	Titulo             *string `json:"titulo" validate:"omitempty,max=255"`
	Autor              *string `json:"autor" validate:"omitempty,max=255"`
	Editorial          *string `json:"editorial" validate:"omitempty,max=255"`
	AnioPublicacion    *int    `json:"anio_publicacion" validate:"omitempty,gte=0,lte=9999"`
	ISBN               *string `json:"isbn" validate:"omitempty,isbn"`
	CantidadDisponible *int    `json:"cantidad_disponible" validate:"omitempty,lte=2147483647"`
}

func normalizedISBN(isbn *string) *string {
	if isbn == nil {
		return nil
	}
	v := httpx.NormalizeISBN(*isbn)
	return &v
}

// Create handles POST /libros/
// @Summary Add a book to the catalog
// @Tags libros
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Manager user id"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /libros/ [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	in := CreateInput{
		Titulo:          req.Titulo,
		Autor:           req.Autor,
		Editorial:       req.Editorial,
		AnioPublicacion: req.AnioPublicacion,
		ISBN:            httpx.NormalizeISBN(req.ISBN),
	}
	if req.CantidadDisponible != nil {
		in.CantidadDisponible = *req.CantidadDisponible
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// List handles GET /libros/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// Get handles GET /libros/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Update handles PUT /libros/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var req updateReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	b, err := h.service.Update(r.Context(), id, UpdateInput{
		Titulo:             req.Titulo,
		Autor:              req.Autor,
		Editorial:          req.Editorial,
		AnioPublicacion:    req.AnioPublicacion,
		ISBN:               normalizedISBN(req.ISBN),
		CantidadDisponible: req.CantidadDisponible,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /libros/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
