package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniMart/internal/auth"
	"MiniMart/internal/catalog"
	"MiniMart/internal/platform"
	"MiniMart/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Platform *platform.Platform
	JWT      *auth.TokenMaker
	Log      *zap.Logger

	// Source is pinged by /readyz when set.
	Source catalog.Source
}

func (s *Server) Routes(limit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Get("/products", s.listProducts)
	r.Get("/products/available", s.availableProducts)
	r.Get("/products/{id}", s.getProduct)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Require(s.JWT))

		pr.Group(func(ar chi.Router) {
			ar.Use(auth.RequireRole(auth.RoleAdmin))
			ar.Use(limit)
			ar.Post("/products", s.putProduct)
			ar.Patch("/products/{id}", s.patchProduct)
			ar.Put("/products/{id}/stock", s.updateStock)
			ar.Post("/users", s.addUser)
		})

		pr.Get("/users/{id}", s.getUser)
		pr.Get("/users/{id}/cart", s.getCart)
		pr.With(limit).Post("/users/{id}/cart", s.cartOp(s.Platform.AddToCart))
		pr.With(limit).Delete("/users/{id}/cart", s.cartOp(s.Platform.RemoveFromCart))
		pr.With(limit).Put("/users/{id}/cart", s.cartOp(s.Platform.ModifyCart))
		pr.Get("/users/{id}/recommendations", s.recommendations)

		pr.With(limit).Post("/orders", s.createOrder)
		pr.Get("/orders/{id}", s.getOrder)
	})

	return r
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.Source == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Source.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// pathID parses the {id} route parameter, writing a 400 when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}

// actingAs writes a 403 unless the token may act for userID.
func actingAs(w http.ResponseWriter, r *http.Request, userID int) bool {
	c, ok := auth.ClaimsFromContext(r.Context())
	if !ok || !c.CanActAs(userID) {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return false
	}
	return true
}
