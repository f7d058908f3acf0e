package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/phonechat/internal/errors"
	"github.com/diogo/phonechat/internal/models"
)

type doResult struct {
	resp *http.Response
	err  error
}

// Send posts message to the chat endpoint and returns the decoded reply.
//
// When a timeout is configured the request races against it. Expiry returns
// a TimeoutError and cancels the request context, so the transport aborts
// the stale request instead of leaving it running.
func (c *ChatClient) Send(ctx context.Context, message string) (*models.ChatReply, error) {
	if message == "" {
		return nil, apierrors.ErrEmptyInput
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.Endpoint()
	requestID := c.newRequestID()
	logger := c.logger.With().Str("request_id", requestID).Str("endpoint", endpoint).Logger()

	payload, err := json.Marshal(models.ChatRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders(c.userAgent) {
		req.Header.Set(key, value)
	}
	req.Header.Set("X-Request-ID", requestID)

	logger.Debug().Int("bytes", len(payload)).Msg("sending chat message")
	start := time.Now()

	done := make(chan doResult, 1)
	go func() {
		resp, err := c.httpClient.Do(req)
		done <- doResult{resp: resp, err: err}
	}()

	var result doResult
	select {
	case <-ctx.Done():
		// The request shares ctx, so the transport is already aborting it.
		// Drain the late result so its body gets closed.
		go func() {
			late := <-done
			if late.resp != nil && late.resp.Body != nil {
				_ = late.resp.Body.Close()
			}
		}()
		logger.Warn().Dur("elapsed", time.Since(start)).Err(ctx.Err()).Msg("chat request abandoned")
		return nil, c.contextError(ctx, endpoint)
	case result = <-done:
	}

	if result.err != nil {
		if ctx.Err() != nil {
			return nil, c.contextError(ctx, endpoint)
		}
		return nil, apierrors.NewNetworkError("send message", endpoint, result.err)
	}

	resp := result.resp
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("chat response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := ""
		if readErr == nil {
			text = string(body)
		}
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, text, http.StatusText(resp.StatusCode))
	}

	if readErr != nil {
		if ctx.Err() != nil {
			return nil, c.contextError(ctx, endpoint)
		}
		return nil, apierrors.NewNetworkError("read response", endpoint, readErr)
	}

	reply, err := parseReply(body)
	if err != nil {
		return nil, err
	}
	reply.RequestID = requestID

	return reply, nil
}

// contextError maps a finished context to the widget's error taxonomy
func (c *ChatClient) contextError(ctx context.Context, endpoint string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(endpoint)
	}
	return apierrors.NewNetworkError("send message", endpoint, ctx.Err())
}

// parseReply decodes a 2xx body. A missing or falsy reply field (null,
// false, 0, "") is not an error and yields the placeholder.
func parseReply(body []byte) (*models.ChatReply, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", truncate(string(body), 200))
	}

	reply := gjson.GetBytes(body, PathReply)
	if isFalsy(reply) {
		return &models.ChatReply{}, nil
	}

	return &models.ChatReply{Reply: reply.String()}, nil
}

func isFalsy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return r.Num == 0
	case gjson.String:
		return r.Str == ""
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
