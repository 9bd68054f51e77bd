package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/HnnhKylSdsBrl/ClassCart/core/market"
	"github.com/HnnhKylSdsBrl/ClassCart/model"

	"github.com/gorilla/mux"
)

// CreateListingHandler creates a listing owned by the authenticated user.
func (h *APIHandler) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	var req market.CreateListingInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ValidationError("Invalid request body"))
		return
	}

	listing, err := h.market.CreateListing(r.Context(), username, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Listing added successfully",
		"item":    listing,
	})
}

// ListListingsHandler returns all listings, newest first.
func (h *APIHandler) ListListingsHandler(w http.ResponseWriter, r *http.Request) {
	listings, err := h.market.ListListings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// GetListingHandler returns a single listing by ID.
func (h *APIHandler) GetListingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, model.ValidationError("Invalid listing ID"))
		return
	}

	listing, err := h.market.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}
