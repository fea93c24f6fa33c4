package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"inkwell/internal/contextutils"
	"inkwell/internal/services"

	"go.uber.org/zap"
)

// APIResponse is the JSON envelope every endpoint returns.
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Builder constructs and writes standardized responses.
type Builder struct {
	maskInternalErrors bool
	logger             *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(maskInternalErrors bool, logger *zap.Logger) *Builder {
	return &Builder{
		maskInternalErrors: maskInternalErrors,
		logger:             logger,
	}
}

// WriteSuccess writes a success envelope with the given status code.
func (b *Builder) WriteSuccess(ctx context.Context, w http.ResponseWriter, status int, data interface{}) {
	b.write(w, status, &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: contextutils.GetRequestID(ctx),
		Timestamp: time.Now().Unix(),
	})
}

// WriteError converts err to an error envelope. Service errors carry their
// own status code and client-safe message; anything else is a masked 500.
func (b *Builder) WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Type:    "INTERNAL_ERROR",
		Message: "internal server error",
	}

	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		status = svcErr.GetStatusCode()
		detail.Type = svcErr.Type
		detail.Message = svcErr.Message
		detail.Code = svcErr.Code
		detail.Details = svcErr.Details
	} else if !b.maskInternalErrors && err != nil {
		detail.Message = err.Error()
	}

	if status >= 500 {
		b.logger.Error("Request failed",
			zap.Error(err),
			zap.String("request_id", contextutils.GetRequestID(ctx)),
		)
	}

	b.write(w, status, &APIResponse{
		Success:   false,
		Error:     detail,
		RequestID: contextutils.GetRequestID(ctx),
		Timestamp: time.Now().Unix(),
	})
}

func (b *Builder) write(w http.ResponseWriter, status int, resp *APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}
