package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrGeneratorStatus = errors.New("text generator returned non-success status")

// HTTPGenerator asks a remote text-generation endpoint for message copy.
type HTTPGenerator struct {
	endpoint string
	client   *http.Client
}

func NewHTTPGenerator(endpoint string, client *http.Client) *HTTPGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGenerator{endpoint: endpoint, client: client}
}

type generateItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type generateRequest struct {
	Brand   string         `json:"brand"`
	Kind    string         `json:"kind"`
	OrderID string         `json:"order_id"`
	Status  string         `json:"status"`
	Total   string         `json:"total"`
	Email   string         `json:"email"`
	Items   []generateItem `json:"items"`
	Prompt  string         `json:"prompt"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, req Request) (Content, error) {
	o := req.Order
	payload := generateRequest{
		Brand:   "NOVA",
		Kind:    string(req.Kind),
		OrderID: o.ID,
		Status:  string(o.Status),
		Total:   o.Total.StringFixed(2),
		Email:   req.Email,
		Items:   make([]generateItem, len(o.Items)),
		Prompt: fmt.Sprintf("Write a premium, modern and reassuring %s email for NOVA. Reply with JSON containing subject and body.",
			req.Kind.label()),
	}
	for i, it := range o.Items {
		payload.Items[i] = generateItem{Name: it.Product.Name, Quantity: it.Quantity}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Content{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return Content{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Content{}, fmt.Errorf("failed to call text generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Content{}, fmt.Errorf("%w: %d", ErrGeneratorStatus, resp.StatusCode)
	}

	var out Content
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Content{}, fmt.Errorf("failed to decode text generator response: %w", err)
	}
	if out.Subject == "" {
		out.Subject = fmt.Sprintf("NOVA: Update for Order %s", o.ID)
	}
	if out.Body == "" {
		out.Body = fmt.Sprintf("Your order %s has been updated to %s.", o.ID, o.Status)
	}
	return out, nil
}
