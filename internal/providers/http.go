package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// post sends payload as JSON and returns the body of a 200 response.
// Status codes map onto the retry package's error types.
func post(ctx context.Context, client *http.Client, url string, headers map[string]string, payload []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch code := httpResp.StatusCode; {
	case code == http.StatusOK:
		return respBody, nil
	case code == http.StatusTooManyRequests:
		return nil, &rateLimitError{}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, &authError{message: string(respBody)}
	case code >= 500:
		return nil, &serverError{statusCode: code, body: string(respBody)}
	default:
		return nil, fmt.Errorf("API error (status %d): %s", code, string(respBody))
	}
}
