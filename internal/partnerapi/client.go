// Package partnerapi fala com a API dona dos parceiros de negócio.
package partnerapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var ErrNotFound = errors.New("partner not found")

// APIError carrega status e corpo de qualquer resposta fora de 2xx.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("partner api: status %d: %s", e.Status, body)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     slog.Default().With("cmp", "partnerapi"),
	}
}

func (c *Client) bpsURL(orgID string, rest ...string) (string, error) {
	parts := append([]string{"api", "organizations", url.PathEscape(orgID), "bps"}, rest...)
	return url.JoinPath(c.baseURL, parts...)
}

// Get devolve o recurso cru (JSON aninhado) do parceiro.
func (c *Client) Get(ctx context.Context, orgID, bpID string) ([]byte, error) {
	u, err := c.bpsURL(orgID, url.PathEscape(bpID))
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(ctx, http.MethodGet, u, nil)
	return body, err
}

// Create envia o payload snake_case e devolve o id do parceiro criado.
func (c *Client) Create(ctx context.Context, orgID string, payload []byte) (string, error) {
	u, err := c.bpsURL(orgID)
	if err != nil {
		return "", err
	}
	body, _, err := c.do(ctx, http.MethodPost, u, payload)
	if err != nil {
		return "", err
	}
	return createdID(body), nil
}

func (c *Client) Update(ctx context.Context, orgID, bpID string, payload []byte) error {
	u, err := c.bpsURL(orgID, url.PathEscape(bpID))
	if err != nil {
		return err
	}
	_, _, err = c.do(ctx, http.MethodPut, u, payload)
	return err
}

// createdID aceita {"id"}, {"bp_id"} ou {"data":{"id"}}.
func createdID(body []byte) string {
	for _, path := range []string{"id", "bp_id", "bpId", "data.id"} {
		if r := gjson.GetBytes(body, path); r.Exists() && r.String() != "" {
			return r.String()
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, u string, payload []byte) ([]byte, int, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("partner api %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("partner api: read body: %w", err)
	}
	c.log.Debug("partner_api_call", "method", method, "status", resp.StatusCode, "took_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, resp.StatusCode, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, resp.StatusCode, nil
}
