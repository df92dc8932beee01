//nolint:ireturn
package httpclient

import (
	"context"
)

// Call builds endpoint, sends it once through c and decodes the reply as T.
func Call[T any](ctx context.Context, c *Client, endpoint Endpoint) (Response[T], error) {
	resp, err := c.Execute(ctx, endpoint)
	if err != nil {
		return Response[T]{}, err
	}

	return Decode[T](resp)
}

// CallData is Call for callers that only want the payload.
func CallData[T any](ctx context.Context, c *Client, endpoint Endpoint) (T, error) {
	resp, err := Call[T](ctx, c, endpoint)

	return resp.Data, err
}
