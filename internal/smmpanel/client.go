package smmpanel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the fulfillment panel's form-encoded API. Every call is a
// POST with an action, the API key, and action-specific fields.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

var ErrRejected = errors.New("panel rejected order")

type OrderStatus struct {
	PanelOrderID int64  `json:"order"`
	Status       string `json:"status"` // Pending | In progress | Completed | Partial | Canceled
	StartCount   int    `json:"start_count"`
	Remains      int    `json:"remains"`
}

// AddOrder places one panel order for one target link and returns the panel's
// order id.
func (c *Client) AddOrder(ctx context.Context, serviceID, link string, quantity int) (int64, error) {
	form := url.Values{
		"key":      {c.APIKey},
		"action":   {"add"},
		"service":  {serviceID},
		"link":     {link},
		"quantity": {strconv.Itoa(quantity)},
	}
	var resp struct {
		Order int64  `json:"order"`
		Error string `json:"error"`
	}
	if err := c.post(ctx, form, &resp); err != nil {
		return 0, err
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
	if resp.Order == 0 {
		return 0, fmt.Errorf("%w: empty order id", ErrRejected)
	}
	return resp.Order, nil
}

func (c *Client) Status(ctx context.Context, panelOrderID int64) (*OrderStatus, error) {
	form := url.Values{
		"key":    {c.APIKey},
		"action": {"status"},
		"order":  {strconv.FormatInt(panelOrderID, 10)},
	}
	var resp struct {
		Status     string `json:"status"`
		StartCount int    `json:"start_count"`
		Remains    int    `json:"remains"`
		Error      string `json:"error"`
	}
	if err := c.post(ctx, form, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("panel status: %s", resp.Error)
	}
	return &OrderStatus{
		PanelOrderID: panelOrderID,
		Status:       resp.Status,
		StartCount:   resp.StartCount,
		Remains:      resp.Remains,
	}, nil
}

func (c *Client) post(ctx context.Context, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("panel http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
