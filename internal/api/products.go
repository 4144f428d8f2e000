package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"MiniMart/internal/catalog"
	"MiniMart/pkg/kit"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("sort")
	c, ok := catalog.ComparatorFor(key)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown sort", map[string]any{
			"sort":    key,
			"allowed": []string{"price", "name", "stock"},
		})
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Platform.SortedProductValues(c))
}

func (s *Server) availableProducts(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Platform.AvailableProductValues())
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, found := s.Platform.ProductValue(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type productReq struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func (s *Server) putProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "price and stock must be non-negative", nil)
		return
	}

	p := catalog.NewProduct(req.ID, req.Name, req.Price, req.Stock)
	s.Platform.AddProduct(p)

	kit.WriteJSON(w, http.StatusCreated, *p)
}

type patchProductReq struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

func (s *Server) patchProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req patchProductReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		kit.WriteError(w, r, http.StatusBadRequest, "price must be non-negative", nil)
		return
	}

	p, found := s.Platform.UpdateProduct(id, func(p *catalog.Product) {
		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
	})
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type stockReq struct {
	Stock int `json:"stock"`
}

func (s *Server) updateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req stockReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Stock < 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "stock must be non-negative", nil)
		return
	}

	p, found := s.Platform.SetStock(id, req.Stock)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}
