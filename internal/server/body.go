package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// maxBodyBytes caps request bodies at 100kb.
const maxBodyBytes = 100 << 10

// decodeBody reads a JSON request body into dest.
//
// Bodies that are empty, not declared as application/json, or a JSON array
// leave dest untouched, so every field reads as absent. Malformed JSON and
// top-level scalars are rejected with 400. A well-formed body whose values
// have the wrong types is returned as a plain error and therefore fails the
// operation like any other storage error.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	if !isJSON(r.Header.Get("Content-Type")) {
		return nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(unwrapWriter(w), r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &apiError{status: http.StatusRequestEntityTooLarge, key: msgInvalidBody, err: err}
		}
		return &apiError{status: http.StatusBadRequest, key: msgInvalidBody, err: err}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if !json.Valid(data) || (data[0] != '{' && data[0] != '[') {
		return &apiError{status: http.StatusBadRequest, key: msgInvalidBody, err: errors.New("malformed JSON body")}
	}
	if data[0] == '[' {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// unwrapWriter strips middleware wrappers so MaxBytesReader sees the
// server's own writer and can close the connection after an oversized body.
func unwrapWriter(w http.ResponseWriter) http.ResponseWriter {
	for {
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return w
		}
		w = u.Unwrap()
	}
}
