// Package web holds the HTTP plumbing shared by REST handlers: JSON responses,
// request parameter decoding and middleware.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime"
	"net/http"
)

// MaxBodyBytes bounds the size of a decoded request body.
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned by DecodeParams when the request body cannot be read as parameters.
var ErrInvalidBody = errors.New("invalid request body")

// ErrBodyTooLarge is returned by DecodeParams when the request body exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// RespondJSON writes payload as JSON with the given status. A nil payload writes the status only.
func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondError writes {"message": message} with the given status.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"message": message})
}

// RespondValidationErrors writes {"validation_errors": fields} with status 400.
func RespondValidationErrors(w http.ResponseWriter, logger *slog.Logger, fields map[string]string) {
	RespondJSON(w, logger, http.StatusBadRequest, map[string]any{"validation_errors": fields})
}

// DecodeParams collects request parameters the way form-based frameworks expose them:
// query string first, then an url-encoded form body, then a JSON object body.
// Later sources override earlier ones. Query and form values are strings; JSON values keep
// their decoded type, with numbers as json.Number.
func DecodeParams(r *http.Request) (map[string]any, error) {
	params := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[len(values)-1]
		}
	}
	if r.Body == nil || r.Body == http.NoBody {
		return params, nil
	}

	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("%w: bad content type: %v", ErrInvalidBody, err)
		}
		mediaType = parsed
	}

	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				params[key] = values[len(values)-1]
			}
		}
	case "", "application/json":
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			if errors.Is(err, io.EOF) {
				return params, nil
			}
			return nil, bodyError(err)
		}
		// the body must hold exactly one JSON value
		var trailing json.RawMessage
		if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
			if err != nil {
				return nil, bodyError(err)
			}
			return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidBody)
		}
		maps.Copy(params, body)
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidBody, mediaType)
	}
	return params, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %v", ErrInvalidBody, err)
}
