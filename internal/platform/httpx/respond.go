// Package httpx provides JSON response utilities for the API surface.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Message is the envelope used for human-readable success and error bodies.
type Message struct {
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Created sends a 201 response carrying a message envelope.
func Created(w http.ResponseWriter, message string) {
	JSON(w, http.StatusCreated, Message{Message: message})
}

// NoContent sends an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
