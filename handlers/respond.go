package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
)

// errorBody is the JSON shape of every failed API call.
type errorBody struct {
	Error    string   `json:"error"`
	Messages []string `json:"errores,omitempty"`
}

// respondError maps a service error onto its HTTP status. Unknown errors
// are logged under tag and hidden behind a 500.
func respondError(e *core.RequestEvent, tag string, err error) error {
	var ve *services.ValidationError
	var iv *services.InvariantViolation
	switch {
	case errors.Is(err, services.ErrNotFound):
		return e.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &ve):
		return e.JSON(http.StatusBadRequest, errorBody{Error: "validation failed", Messages: ve.Messages})
	case errors.As(err, &iv):
		return e.JSON(http.StatusConflict, errorBody{Error: iv.Error()})
	}
	log.Printf("%s: %v", tag, err)
	return e.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
}

// decodeJSON reads the request body into dst. A malformed body is a 400.
func decodeJSON(e *core.RequestEvent, dst any) error {
	if e.Request.Body == nil {
		return &services.ValidationError{Messages: []string{"body: a JSON body is required"}}
	}
	decoder := json.NewDecoder(e.Request.Body)
	if err := decoder.Decode(dst); err != nil {
		return &services.ValidationError{Messages: []string{fmt.Sprintf("body: invalid JSON: %v", err)}}
	}
	return nil
}

// versionParam parses the {version} path segment.
func versionParam(e *core.RequestEvent) (int, error) {
	raw := e.Request.PathValue("version")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &services.ValidationError{Messages: []string{fmt.Sprintf("version: %q is not a version number", raw)}}
	}
	return n, nil
}
