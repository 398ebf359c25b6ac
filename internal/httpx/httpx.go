// Package httpx holds the request decoding and response writing shared by
// the feature handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/apperr"
)

const maxBodyBytes = 1 << 20

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and writes an ErrorBody. Server-side
// failures are logged with their cause; the client gets a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		logger.Debugw("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	WriteJSON(w, status, ErrorBody{Error: apperr.PublicMessage(err)})
}

// Fields returns the request body as flat key/value pairs. Form-encoded,
// multipart and JSON object bodies are accepted; JSON scalars are rendered
// as their literal text.
func Fields(r *http.Request) (url.Values, error) {
	ct := r.Header.Get("Content-Type")
	mediaType := ""
	if ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, apperr.Invalid("unsupported content type")
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/json":
		return jsonFields(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, apperr.Invalid("malformed form body")
		}
		return r.PostForm, nil
	default:
		if err := r.ParseForm(); err != nil {
			return nil, apperr.Invalid("malformed form body")
		}
		return r.PostForm, nil
	}
}

func jsonFields(r *http.Request) (url.Values, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return url.Values{}, nil
		}
		return nil, apperr.Invalid("malformed JSON body")
	}

	out := make(url.Values, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case nil:
		case string:
			out.Set(k, val)
		case json.Number:
			out.Set(k, val.String())
		case bool:
			out.Set(k, strconv.FormatBool(val))
		default:
			return nil, apperr.Invalid("field %q must be a scalar", k)
		}
	}
	return out, nil
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}
