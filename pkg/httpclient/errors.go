package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

// Downstream bodies are capped so a misbehaving service cannot make the
// edge buffer an arbitrarily large error payload.
const maxErrorBody = 1 << 20

// downstreamError is the error envelope the backend, auth, and cdn services
// all answer with on non-2xx responses.
type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes the body of a non-2xx response from a
// downstream service and translates it into this service's error taxonomy,
// preserving the downstream code and message when the body carries the
// standard envelope. The response body is fully read and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var downstream downstreamError
	if json.Unmarshal(body, &downstream) == nil && downstream.Error != nil {
		return mapDownstreamError(resp.StatusCode, downstream.Error.Code, downstream.Error.Message, serviceName)
	}

	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(body))
}

// mapDownstreamError keeps the downstream failure class intact across the
// hop: a 404 from the backend surfaces to the storefront client as a 404,
// a stock conflict as a 409, and so on.
func mapDownstreamError(status int, code, message, serviceName string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch status {
	case http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualified)
	case http.StatusConflict:
		return apperrors.Conflict(qualified)
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case http.StatusGone:
		return apperrors.Gone(qualified)
	case http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    code,
			Message: qualified,
			Status:  http.StatusServiceUnavailable,
			Err:     apperrors.ErrServiceUnavail,
		}
	}

	if status >= 500 {
		return fmt.Errorf("%s server error (%d/%s): %s", serviceName, status, code, message)
	}
	return &apperrors.AppError{
		Code:    code,
		Message: qualified,
		Status:  status,
	}
}

// IsClientError reports whether status is a 4xx. Client errors mean the
// request itself was invalid; retrying them is pointless.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
