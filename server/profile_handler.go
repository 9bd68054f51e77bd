package server

import (
	"encoding/json"
	"net/http"

	"github.com/HnnhKylSdsBrl/ClassCart/core/account"
	"github.com/HnnhKylSdsBrl/ClassCart/model"
)

// GetProfileHandler returns the authenticated user's profile.
func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfileHandler applies a partial update to the authenticated user's
// profile.
func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	var req account.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ValidationError("Invalid request body"))
		return
	}

	profile, err := h.accounts.UpdateProfile(r.Context(), username, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"user": profile,
	})
}

// UpdatePictureHandler replaces the authenticated user's profile picture.
// The image arrives as a base64 data URL.
func (h *APIHandler) UpdatePictureHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	var req struct {
		ImageBase64 string `json:"imageBase64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ValidationError("Invalid request body"))
		return
	}

	profile, err := h.accounts.UpdateProfilePicture(r.Context(), username, req.ImageBase64)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"user": profile,
	})
}

// ChangePasswordHandler changes the authenticated user's password.
func (h *APIHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ValidationError("Invalid request body"))
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Password updated",
	})
}
