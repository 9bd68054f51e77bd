package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/HnnhKylSdsBrl/ClassCart/model"

	"github.com/gorilla/mux"
)

// CreateOrderHandler reserves a listing for the authenticated buyer.
func (h *APIHandler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	var req struct {
		ListingID int64 `json:"listingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ValidationError("Invalid request body"))
		return
	}

	order, err := h.market.CreateOrder(r.Context(), username, req.ListingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// ListMyOrdersHandler returns the authenticated user's orders as buyer or
// seller, newest first.
func (h *APIHandler) ListMyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	orders, err := h.market.ListMyOrders(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func orderIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// ConfirmOrderHandler records the caller's confirmation of the meetup.
func (h *APIHandler) ConfirmOrderHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	id, err := orderIDFromRequest(r)
	if err != nil {
		writeError(w, model.ValidationError("Invalid order ID"))
		return
	}

	order, err := h.market.ConfirmOrder(r.Context(), username, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// CancelOrderHandler cancels a pending order on behalf of the buyer.
func (h *APIHandler) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	id, err := orderIDFromRequest(r)
	if err != nil {
		writeError(w, model.ValidationError("Invalid order ID"))
		return
	}

	order, err := h.market.CancelOrder(r.Context(), username, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
