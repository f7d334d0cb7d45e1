// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/marigoldshop/catalog-admin/internal/models"
)

// Client is the stateless transport to the remote catalog store and image
// host. Requests are plain request/response: no retry, no timeout override,
// no streaming. Failures surface as a single error carrying a readable
// message.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *logrus.Entry
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
		log:     logrus.WithField("component", "catalog_client"),
	}
}

// List fetches both category lists in one round trip.
func (c *Client) List(ctx context.Context) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &catalog); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return &catalog, nil
}

// Create posts a new product payload; the store assigns the identifier.
func (c *Client) Create(ctx context.Context, payload models.Payload) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodPost, "/products", payload, &product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}
	return &product, nil
}

// Update sends a partial payload for an existing product. Category rides
// along as a routing hint.
func (c *Client) Update(ctx context.Context, id string, category models.Category, payload models.Payload) (*models.Product, error) {
	path := fmt.Sprintf("/products/%s?category=%s", url.PathEscape(id), url.QueryEscape(string(category)))
	var product models.Product
	if err := c.doJSON(ctx, http.MethodPut, path, payload, &product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// Delete removes a product. Category is optional and only sent when the
// store needs it to disambiguate.
func (c *Client) Delete(ctx context.Context, id string, category models.Category) (*models.Product, error) {
	path := "/products/" + url.PathEscape(id)
	if category != "" {
		path += "?category=" + url.QueryEscape(string(category))
	}
	var product models.Product
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &product); err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return &product, nil
}

// UploadImage sends file bytes as the multipart form field "image" and
// returns the hosted URL. A JSON error field in the failure body is
// preferred as the surfaced message.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(resp.StatusCode, raw)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response did not contain a url")
	}

	c.log.WithField("url", result.URL).Debug("image uploaded")
	return result.URL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("catalog request failed")
		return statusError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// statusError surfaces the store's JSON error message when one is present,
// otherwise a generic status error.
func statusError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s", payload.Error)
	}
	return fmt.Errorf("unexpected status %d", status)
}
