package api

import (
	"context"
	"encoding/json"
)

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, query ...Param) Envelope[json.RawMessage] {
	return c.Do(ctx, Request{Endpoint: endpoint, Query: query})
}

// Post executes a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) Envelope[json.RawMessage] {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: "POST", Body: body})
}

// Put executes a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any) Envelope[json.RawMessage] {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: "PUT", Body: body})
}

// Patch executes a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) Envelope[json.RawMessage] {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: "PATCH", Body: body})
}

// Delete executes a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) Envelope[json.RawMessage] {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: "DELETE"})
}

// Call executes a request and decodes the envelope's data payload into T.
// Failed envelopes come back as *APIError.
func Call[T any](ctx context.Context, c *Client, r Request) (T, error) {
	var out T

	env := c.Do(ctx, r)
	if err := env.Err(); err != nil {
		return out, err
	}
	if len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, &APIError{
			Kind:    KindDecode,
			Status:  env.Status,
			Message: "unexpected response payload: " + err.Error(),
		}
	}
	return out, nil
}
