package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape every endpoint responds with.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteData(w http.ResponseWriter, code int, v any) {
	WriteJSON(w, code, Envelope{Data: v})
}

// WriteProblem emits a simplified RFC7807 problem document.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	WriteJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
