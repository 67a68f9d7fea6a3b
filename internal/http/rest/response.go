package rest

import (
	"encoding/json"
	"net/http"

	"github.com/bwise1/travelog/util"
	"github.com/bwise1/travelog/util/tracing"
	"github.com/bwise1/travelog/util/values"
	"go.uber.org/zap"
)

// ServerResponse is the envelope every JSON endpoint answers with.
type ServerResponse struct {
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"data,omitempty"`
}

func respondWithError(err error, message, status string, tc *tracing.Context) *ServerResponse {
	fields := []zap.Field{
		zap.String("status", status),
		zap.String("message", message),
		zap.Error(err),
	}
	if tc != nil {
		fields = append(fields, zap.String("request_id", tc.RequestID), zap.String("request_source", tc.RequestSource))
	}
	if util.StatusCode(status) >= http.StatusInternalServerError {
		zap.L().Error("request failed", fields...)
	} else {
		zap.L().Info("request rejected", fields...)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func writeErrorResponse(w http.ResponseWriter, err error, status, message string) {
	zap.L().Error(message, zap.String("status", status), zap.Error(err))
	resp := ServerResponse{Message: message, Status: status}
	data, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		http.Error(w, message, http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, data, util.StatusCode(status))
}

func writeJSONResponse(w http.ResponseWriter, data []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(data); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func tracingFrom(r *http.Request) tracing.Context {
	tc, _ := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	return tc
}
