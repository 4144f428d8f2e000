package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"MiniMart/internal/account"
	"MiniMart/pkg/kit"
)

type userReq struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func (s *Server) addUser(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "username required", nil)
		return
	}

	s.Platform.AddUser(account.NewUser(req.ID, req.Username))

	u, _ := s.Platform.UserValue(req.ID)
	kit.WriteJSON(w, http.StatusCreated, u)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !actingAs(w, r, id) {
		return
	}

	u, found := s.Platform.UserValue(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, u)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !actingAs(w, r, id) {
		return
	}

	lines, found := s.Platform.Cart(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, lines)
}

type cartReq struct {
	ProductID int `json:"product_id"`
	Qty       int `json:"qty"`
}

// cartOp adapts one of the platform cart mutations to a handler.
func (s *Server) cartOp(apply func(userID, productID, qty int) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok || !actingAs(w, r, id) {
			return
		}

		var req cartReq
		if err := decodeJSON(w, r, &req); err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
			return
		}
		if req.Qty < 0 {
			kit.WriteError(w, r, http.StatusBadRequest, "qty must be non-negative", map[string]any{"qty": req.Qty})
			return
		}

		if !apply(id, req.ProductID, req.Qty) {
			kit.WriteError(w, r, http.StatusNotFound, "unknown user or product", map[string]any{
				"user_id":    id,
				"product_id": req.ProductID,
			})
			return
		}

		lines, _ := s.Platform.Cart(id)
		kit.WriteJSON(w, http.StatusOK, lines)
	}
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !actingAs(w, r, id) {
		return
	}

	products, found := s.Platform.Recommendations(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if s.Log != nil {
		s.Log.Debug("recommendations", zap.Int("user_id", id), zap.Int("count", len(products)))
	}
	kit.WriteJSON(w, http.StatusOK, products)
}
