package cliente

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
	Nombre               string  `json:"nombre" validate:"required,max=100"`
	Apellido             string  `json:"apellido" validate:"required,max=100"`
	Correo               string  `json:"correo" validate:"required,email,max=100"`
	Telefono             *string `json:"telefono" validate:"omitempty,max=20"`
	NumeroIdentificacion string  `json:"numero_identificacion" validate:"required,national_id"`
}

type updateReq struct {
	Nombre               *string `json:"nombre" validate:"omitempty,max=100"`
	Apellido             *string `json:"apellido" validate:"omitempty,max=100"`
	Correo               *string `json:"correo" validate:"omitempty,email,max=100"`
	Telefono             *string `json:"telefono" validate:"omitempty,max=20"`
	NumeroIdentificacion *string `json:"numero_identificacion" validate:"omitempty,national_id"`
}

// Create handles POST /clientes/
// @Summary Register a cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Manager user id"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /clientes/ [post]
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

	c, err := h.service.Create(r.Context(), CreateInput{
		Nombre:               req.Nombre,
		Apellido:             req.Apellido,
		Correo:               req.Correo,
		Telefono:             req.Telefono,
		NumeroIdentificacion: req.NumeroIdentificacion,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, c)
}

// List handles GET /clientes/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, clientes, map[string]any{"total": len(clientes)})
}

// Get handles GET /clientes/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, c, nil)
}

// Update handles PUT /clientes/{id}
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

	c, err := h.service.Update(r.Context(), id, UpdateInput{
		Nombre:               req.Nombre,
		Apellido:             req.Apellido,
		Correo:               req.Correo,
		Telefono:             req.Telefono,
		NumeroIdentificacion: req.NumeroIdentificacion,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, c, nil)
}

// Delete handles DELETE /clientes/{id}
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
