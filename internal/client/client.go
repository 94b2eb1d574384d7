// Package client holds the outbound HTTP collaborators: the order webhook and
// the assistant text-completion endpoint.
package client

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected response status")

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return errors.Wrapf(ErrUnexpectedStatus, "%d: %s", resp.StatusCode, string(body))
}
