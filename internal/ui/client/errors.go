package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/emasmetal/website/internal/ui/types"
)

const (
	// label used for every error synthesized by the client
	networkErrorLabel = "Network Error"

	fallbackErrorMessage = "An unexpected error occurred"

	// error bodies larger than this are treated as unstructured
	maxErrorBodyBytes = 1 << 20
)

// apiErrorSchema describes the error body sent by the API.
// A body is only passed through to callers when it validates against this schema.
// Only status is required, the default error body for 401 and 403 responses has no message.
const apiErrorSchema = `{
	"type": "object",
	"required": ["status"],
	"properties": {
		"timestamp":   {"type": "string"},
		"status":      {"type": "integer"},
		"error":       {"type": "string"},
		"message":     {"type": "string"},
		"path":        {"type": "string"},
		"fieldErrors": {"type": "object", "additionalProperties": {"type": "string"}}
	}
}`

var compiledApiErrorSchema = mustCompileApiErrorSchema()

func mustCompileApiErrorSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(apiErrorSchema))
	if err != nil {
		panic(fmt.Sprintf("api error schema: %v", err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("api-error.json", doc); err != nil {
		panic(fmt.Sprintf("api error schema: %v", err))
	}
	return c.MustCompile("api-error.json")
}

// newApiError synthesizes an ApiError for a failure that did not come with a usable error body
func newApiError(status int, message, path string) *types.ApiError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = fallbackErrorMessage
	}
	return &types.ApiError{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Status:     status,
		ErrorLabel: networkErrorLabel,
		Message:    message,
		Path:       path,
	}
}

// normalizeError converts the outcome of a failed call into an ApiError.
//
// res is nil when no response was received, in which case transportErr describes the failure.
// When the response carries a structured error body it is returned unchanged,
// otherwise an error is synthesized from the status code (or 500) and the transport message.
// A body that is not valid JSON, or JSON that does not match the error schema, is handled as unstructured.
func normalizeError(res *http.Response, transportErr error, path string) *types.ApiError {
	if res == nil {
		message := ""
		if transportErr != nil {
			message = transportErr.Error()
		}
		return newApiError(http.StatusInternalServerError, message, path)
	}

	if apiErr, ok := decodeStructuredError(res.Body); ok {
		return apiErr
	}

	return newApiError(res.StatusCode, fmt.Sprintf("request failed with status code %d", res.StatusCode), path)
}

// decodeStructuredError reads an error body and reports whether it is an API error payload
func decodeStructuredError(body io.Reader) (*types.ApiError, bool) {
	if body == nil {
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	if err := compiledApiErrorSchema.Validate(inst); err != nil {
		return nil, false
	}

	var apiErr types.ApiError
	if err := json.Unmarshal(data, &apiErr); err != nil {
		return nil, false
	}
	return &apiErr, true
}

// newInternalError creates an ApiError for failures on the client side (building the request or decoding a response),
// supply the error and an explanation of what was being done when the error occurred
func newInternalError(err error, while, path string) *types.ApiError {
	return newApiError(http.StatusInternalServerError, fmt.Sprintf("%v while %s", err, while), path)
}

// AsApiError returns err as an ApiError.
// Errors returned by the client are always ApiErrors, anything else is reported as a 500 with the error text as message.
func AsApiError(err error) *types.ApiError {
	if err == nil {
		return nil
	}
	var apiErr *types.ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return newApiError(http.StatusInternalServerError, err.Error(), "")
}
