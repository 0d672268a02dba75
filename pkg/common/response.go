package common

import (
	"encoding/json"
	"net/http"
)

type ResponseType string

const (
	ResponseTypeObject ResponseType = "object"
	ResponseTypeError  ResponseType = "error"
)

// Response is the default response object
type Response struct {
	ResponseType ResponseType `json:"response_type"`
	Object       any          `json:"object,omitempty"`
	Meta         any          `json:"meta,omitempty"`
}

// ErrorResponse is written whenever a request could not be served
type ErrorResponse struct {
	Error   string `json:"error"`
	Hash    string `json:"hash,omitempty"`
	Receipt any    `json:"receipt,omitempty"`
}

func Body(w http.ResponseWriter, body any, meta any) error {
	return JSON(w, http.StatusOK, &Response{
		ResponseType: ResponseTypeObject,
		Object:       body,
		Meta:         meta,
	})
}

// JSON writes body as is, without the response envelope.
func JSON(w http.ResponseWriter, status int, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)

	return nil
}

func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func Error(w http.ResponseWriter, status int, resp *ErrorResponse) {
	err := JSON(w, status, resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
