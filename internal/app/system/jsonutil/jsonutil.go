// Package jsonutil writes the uniform API envelope.
//
// Success bodies are {"success":true,"data":...} with optional "pagination"
// and "message"; failures are {"success":false,"message":...}.
package jsonutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/stratawell/internal/app/system/paging"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool         `json:"success"`
	Data       any          `json:"data,omitempty"`
	Pagination *paging.Meta `json:"pagination,omitempty"`
	Message    string       `json:"message,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// OK writes 200 {"success":true,"data":data}.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 {"success":true,"data":data}.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Page writes 200 with data and its pagination block.
func Page(w http.ResponseWriter, data any, meta paging.Meta) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: &meta})
}

// Message writes 200 {"success":true,"message":msg} with optional data.
func Message(w http.ResponseWriter, msg string, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: msg, Data: data})
}

// Error writes {"success":false,"message":message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// BadRequest writes a 400. Validation failures and duplicate keys both use it.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden writes a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// TooManyRequests writes a 429.
func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, message)
}

// InternalError writes the generic 500. Log the cause separately; it is
// never sent to the client.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Server error")
}

// ErrEmptyBody is returned by Decode for a request without a body.
var ErrEmptyBody = errors.New("request body is empty")

// Decode reads one JSON value from the request body into v.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// DecodeOrReject decodes the body and, on failure, writes a 400 with
// "Invalid request body". It reports whether decoding succeeded.
func DecodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := Decode(r, v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}
