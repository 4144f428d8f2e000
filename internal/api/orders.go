package api

import (
	"net/http"

	"go.uber.org/zap"

	"MiniMart/internal/auth"
	"MiniMart/internal/platform"
	"MiniMart/pkg/kit"
)

type createOrderReq struct {
	ID     int                `json:"id"`
	UserID int                `json:"user_id"`
	Items  []platform.ItemRef `json:"items"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if !actingAs(w, r, req.UserID) {
		return
	}
	if len(req.Items) == 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "items required", nil)
		return
	}
	for _, it := range req.Items {
		if it.Qty <= 0 {
			kit.WriteError(w, r, http.StatusBadRequest, "bad item", map[string]any{
				"product_id": it.ProductID,
				"qty":        it.Qty,
			})
			return
		}
	}

	o, badID, ok := s.Platform.PlaceOrder(req.ID, req.UserID, req.Items)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product_id", map[string]any{"product_id": badID})
		return
	}

	if s.Log != nil {
		s.Log.Info("order created",
			zap.Int("order_id", o.ID),
			zap.Int("user_id", o.UserID),
			zap.String("total", o.Total.String()),
		)
	}
	kit.WriteJSON(w, http.StatusCreated, o)
}

// getOrder answers 404 for orders the caller may not see, so ids owned by
// other users are indistinguishable from unknown ones.
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	owner, found := s.Platform.OrderOwner(id)
	if found {
		c, ok := auth.ClaimsFromContext(r.Context())
		found = ok && c.CanActAs(owner)
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	o, found := s.Platform.OrderValue(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}
