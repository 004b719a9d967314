package main

import (
	"context"
	"net/http"
	"time"

	"biblioteca/internal/auth"
	"biblioteca/internal/book"
	"biblioteca/internal/cliente"
	"biblioteca/internal/httpx"
	"biblioteca/internal/loan"
	"biblioteca/internal/report"
	"biblioteca/internal/role"
	"biblioteca/internal/user"
)

type handlers struct {
	auth     *auth.HTTPHandler
	users    *user.HTTPHandler
	roles    *role.HTTPHandler
	books    *book.HTTPHandler
	clientes *cliente.HTTPHandler
	loans    *loan.HTTPHandler
	reports  *report.HTTPHandler
}

// collection registers pattern both with and without the trailing slash.
func collection(mux *http.ServeMux, method, path string, h http.Handler) {
	mux.Handle(method+" "+path, h)
	mux.Handle(method+" "+path+"/{$}", h)
}

func registerRoutes(mux *http.ServeMux, gate *auth.Gate, h handlers, ping func(context.Context) error) {
	manager := func(fn http.HandlerFunc) http.Handler { return auth.RequireFunc(gate, auth.TierManager, fn) }
	admin := func(fn http.HandlerFunc) http.Handler { return auth.RequireFunc(gate, auth.TierAdmin, fn) }

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("POST /auth/login", h.auth.Login)

	collection(mux, http.MethodGet, "/roles", http.HandlerFunc(h.roles.List))

	collection(mux, http.MethodPost, "/users", admin(h.users.Create))
	collection(mux, http.MethodGet, "/users", http.HandlerFunc(h.users.List))
	mux.HandleFunc("GET /users/{id}", h.users.Get)
	mux.Handle("PUT /users/{id}", admin(h.users.Update))
	mux.Handle("DELETE /users/{id}", admin(h.users.Delete))

	collection(mux, http.MethodPost, "/libros", manager(h.books.Create))
	collection(mux, http.MethodGet, "/libros", http.HandlerFunc(h.books.List))
	mux.HandleFunc("GET /libros/{id}", h.books.Get)
	mux.Handle("PUT /libros/{id}", manager(h.books.Update))
	mux.Handle("DELETE /libros/{id}", manager(h.books.Delete))
	mux.HandleFunc("GET /libros/{id}/prestamos-activos", h.loans.ActiveForBook)

	collection(mux, http.MethodPost, "/clientes", manager(h.clientes.Create))
	collection(mux, http.MethodGet, "/clientes", http.HandlerFunc(h.clientes.List))
	mux.HandleFunc("GET /clientes/{id}", h.clientes.Get)
	mux.Handle("PUT /clientes/{id}", manager(h.clientes.Update))
	mux.Handle("DELETE /clientes/{id}", manager(h.clientes.Delete))

	collection(mux, http.MethodPost, "/prestamos", manager(h.loans.Create))
	collection(mux, http.MethodGet, "/prestamos", http.HandlerFunc(h.loans.List))
	mux.Handle("PUT /prestamos/{id}/devolver", manager(h.loans.Return))

	mux.Handle("GET /reportes/prestamos", admin(h.reports.Loans))
}

// middleware wraps the router; the first entry runs outermost.
func middleware(h http.Handler, limiter *httpx.RateLimiter, allowedOrigins []string, maxBody int64, hsts bool) http.Handler {
	return httpx.Chain(h,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(hsts),
		httpx.CORSMiddleware(allowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(maxBody),
	)
}
