package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"task-manager/internal/apperr"
)

type detailBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// writeError converts a service error into its JSON body and status.
func writeError(w http.ResponseWriter, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, detailBody{Detail: "internal server error"})
		return
	}

	status := appErr.Code.HTTPStatus()
	switch appErr.Code {
	case apperr.CodeValidation:
		if len(appErr.Fields) > 0 {
			writeJSON(w, status, appErr.Fields)
			return
		}
		writeJSON(w, status, errorBody{Error: appErr.Error()})
	case apperr.CodeAuthentication:
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
		writeJSON(w, status, detailBody{Detail: appErr.Error(), Code: appErr.Reason})
	case apperr.CodeThrottled:
		w.Header().Set("Retry-After", strconv.Itoa(int(appErr.RetryAfter.Seconds())))
		writeJSON(w, status, detailBody{Detail: appErr.Error()})
	default:
		writeJSON(w, status, detailBody{Detail: appErr.Error()})
	}
}

// writeLogoutError reports validation and token failures as {"error": msg}
// with 400, the shape logout clients already expect.
func writeLogoutError(w http.ResponseWriter, err error) {
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation, apperr.CodeAuthentication:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		writeError(w, err)
	}
}

// decodeJSON reads a JSON object body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperr.Wrap(apperr.CodeValidation, fmt.Sprintf("JSON parse error - %v", err), err)
}
