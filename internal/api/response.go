package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
)

type Response struct {
	Data any `json:"data"`
}

type ResponseError struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Kind   string         `json:"kind"`
	Detail string         `json:"detail"`
	Data   map[string]any `json:"data,omitempty"`
}

var kindStatusMap = map[apperr.Kind]int{
	apperr.KindValidation:        http.StatusBadRequest,
	apperr.KindNotFound:          http.StatusNotFound,
	apperr.KindForbidden:         http.StatusForbidden,
	apperr.KindStoreConflict:     http.StatusConflict,
	apperr.KindInsufficientStock: http.StatusConflict,
	apperr.KindInvalidTransition: http.StatusBadRequest,
	apperr.KindPaymentGateway:    http.StatusBadGateway,
	apperr.KindInternal:          http.StatusInternalServerError,
}

func SuccessJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// ErrorJSON 只輸出kind與detail，內部錯誤細節不出邊界
func ErrorJSON(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status, ok := kindStatusMap[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := ErrorBody{Kind: string(kind), Detail: "internal server error"}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body.Detail = appErr.Detail
		body.Data = appErr.Data
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ResponseError{Error: body})
}
