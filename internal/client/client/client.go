// Package client talks to the issuer and the guardian over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/netx"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResult is the issuer's answer to a registration.
type RegisterResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type HTTPClient struct {
	issuerURL   string
	guardianURL string
	http        *http.Client
}

func NewHTTPClient(issuerURL, guardianURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		issuerURL:   strings.TrimRight(issuerURL, "/"),
		guardianURL: strings.TrimRight(guardianURL, "/"),
		http:        &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Register(ctx context.Context, userName string, password []byte) (*RegisterResult, error) {
	var out RegisterResult
	err := netx.PostJSON(ctx, c.http, c.issuerURL+"/api/auth/register", credentials{userName, string(password)}, &out)
	if err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token.
func (c *HTTPClient) Login(ctx context.Context, userName string, password []byte) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := netx.PostJSON(ctx, c.http, c.issuerURL+"/api/auth/login", credentials{userName, string(password)}, &out)
	if err != nil {
		return "", mapError(err)
	}
	if out.Token == "" {
		return "", errors.New("issuer returned no token")
	}
	return out.Token, nil
}

// Call performs GET path on the guardian with the token attached and
// returns the response body.
func (c *HTTPClient) Call(ctx context.Context, token, path string) ([]byte, error) {
	u, err := url.JoinPath(c.guardianURL, path)
	if err != nil {
		return nil, fmt.Errorf("bad path %q: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	status, body, err := netx.Do(c.http, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status < 200 || status > 299 {
		return nil, mapError(&netx.StatusError{StatusCode: status, Body: body})
	}
	return body, nil
}

func mapError(err error) error {
	var se *netx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if se.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	apiErr := &APIError{StatusCode: se.StatusCode}
	var envelope struct {
		Errors []string `json:"errors"`
		Error  string   `json:"error"`
	}
	if json.Unmarshal(se.Body, &envelope) == nil {
		apiErr.Messages = envelope.Errors
		if envelope.Error != "" {
			apiErr.Messages = append(apiErr.Messages, envelope.Error)
		}
	}
	if len(apiErr.Messages) == 0 {
		apiErr.Messages = []string{se.Error()}
	}
	return apiErr
}
