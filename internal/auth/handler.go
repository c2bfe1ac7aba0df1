package auth

import (
	"encoding/json"
	"net/http"

	"tabletap/internal/httpx"
)

// SessionHandler issues bearer tokens. Identity verification (OAuth, OTP)
// sits in front of this deployment-side; the handler only mints claims.
func SessionHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Subject string `json:"subject"`
			Role    string `json:"role"`
			ShopID  string `json:"shop_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
			return
		}
		if req.Subject == "" {
			httpx.WriteProblem(w, http.StatusBadRequest, "validation_failed", "subject is required")
			return
		}
		switch req.Role {
		case RoleCustomer, RoleVendor, RoleAdmin:
		default:
			httpx.WriteProblem(w, http.StatusBadRequest, "validation_failed", "unknown role")
			return
		}

		token, err := m.Issue(req.Subject, req.Role, req.ShopID)
		if err != nil {
			httpx.WriteProblem(w, http.StatusInternalServerError, "token_issue_failed", err.Error())
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, httpx.Envelope{Token: token})
	}
}
