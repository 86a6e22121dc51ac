package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
)

const defaultShopifyAPIVersion = "2024-01"

// DraftOrderLineItem is one resolved line of a draft order. VariantID is the
// Shopify variant ID, never the internal catalog key.
type DraftOrderLineItem struct {
	VariantID int64
	Quantity  int
}

// DraftOrderRequest carries everything needed to stage a provisional order.
type DraftOrderRequest struct {
	Email           string
	LineItems       []DraftOrderLineItem
	ShippingAddress *models.Address
	BillingAddress  *models.Address
	Note            string
}

// DraftOrder is a provisional order in Shopify, not yet counted as paid.
type DraftOrder struct {
	ID   int64
	Name string
}

// FinalizedOrder is the real order produced by completing a draft.
type FinalizedOrder struct {
	OrderID   int64
	OrderName string
}

// OrderStagingClient wraps the commerce backend's create/complete draft-order
// operations.
type OrderStagingClient interface {
	CreateDraftOrder(ctx context.Context, req *DraftOrderRequest) (*DraftOrder, error)
	// CompleteDraftOrder promotes a draft to a finalized, paid order. Failure
	// here must not unwind payment confirmation; the caller records the order
	// for manual review instead.
	CompleteDraftOrder(ctx context.Context, draftOrderID int64) (*FinalizedOrder, error)
}

// ShopifyClient implements OrderStagingClient against the Shopify Admin REST
// API.
type ShopifyClient struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
}

// NewShopifyClient creates a ShopifyClient. apiVersion may be empty.
func NewShopifyClient(shopDomain, accessToken, apiVersion string) *ShopifyClient {
	if apiVersion == "" {
		apiVersion = defaultShopifyAPIVersion
	}
	return &ShopifyClient{
		shopDomain:  strings.TrimRight(shopDomain, "/"),
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// ---- Shopify API request/response structs ----

type shopifyAddress struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
	Country   string `json:"country,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type shopifyLineItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

type shopifyDraftOrderPayload struct {
	DraftOrder struct {
		Email           string            `json:"email"`
		LineItems       []shopifyLineItem `json:"line_items"`
		ShippingAddress *shopifyAddress   `json:"shipping_address,omitempty"`
		BillingAddress  *shopifyAddress   `json:"billing_address,omitempty"`
		Note            string            `json:"note,omitempty"`
	} `json:"draft_order"`
}

type shopifyDraftOrderResponse struct {
	DraftOrder struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Status  string `json:"status"`
		OrderID *int64 `json:"order_id"`
	} `json:"draft_order"`
	Errors interface{} `json:"errors,omitempty"`
}

type shopifyOrderResponse struct {
	Order struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"order"`
}

// CreateDraftOrder stages a provisional order with financial status pending.
func (c *ShopifyClient) CreateDraftOrder(ctx context.Context, req *DraftOrderRequest) (*DraftOrder, error) {
	var payload shopifyDraftOrderPayload
	payload.DraftOrder.Email = req.Email
	payload.DraftOrder.Note = req.Note
	for _, item := range req.LineItems {
		payload.DraftOrder.LineItems = append(payload.DraftOrder.LineItems, shopifyLineItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	payload.DraftOrder.ShippingAddress = toShopifyAddress(req.ShippingAddress)
	payload.DraftOrder.BillingAddress = toShopifyAddress(req.BillingAddress)

	var resp shopifyDraftOrderResponse
	if err := c.doRequest(ctx, http.MethodPost, "/draft_orders.json", payload, &resp); err != nil {
		return nil, fmt.Errorf("shopify create draft order: %w", err)
	}
	if resp.DraftOrder.ID == 0 {
		return nil, fmt.Errorf("shopify create draft order: empty draft order in response")
	}

	return &DraftOrder{ID: resp.DraftOrder.ID, Name: resp.DraftOrder.Name}, nil
}

// CompleteDraftOrder promotes a draft to a real order marked paid.
func (c *ShopifyClient) CompleteDraftOrder(ctx context.Context, draftOrderID int64) (*FinalizedOrder, error) {
	path := fmt.Sprintf("/draft_orders/%d/complete.json?payment_pending=false", draftOrderID)

	var resp shopifyDraftOrderResponse
	if err := c.doRequest(ctx, http.MethodPut, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("shopify complete draft order %d: %w", draftOrderID, err)
	}
	if resp.DraftOrder.OrderID == nil || *resp.DraftOrder.OrderID == 0 {
		return nil, fmt.Errorf("shopify complete draft order %d: no order id in response", draftOrderID)
	}

	orderID := *resp.DraftOrder.OrderID
	orderName := resp.DraftOrder.Name

	// The completed draft keeps its own D-prefixed name; fetch the real order
	// name when we can, fall back to the draft name otherwise.
	var orderResp shopifyOrderResponse
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/orders/%d.json", orderID), nil, &orderResp); err == nil && orderResp.Order.Name != "" {
		orderName = orderResp.Order.Name
	}

	return &FinalizedOrder{OrderID: orderID, OrderName: orderName}, nil
}

func (c *ShopifyClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := fmt.Sprintf("%s/admin/api/%s%s", c.shopDomain, c.apiVersion, path)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("shopify returned %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func toShopifyAddress(a *models.Address) *shopifyAddress {
	if a == nil {
		return nil
	}
	return &shopifyAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Province:  a.Province,
		Country:   a.Country,
		Zip:       a.Zip,
		Phone:     a.Phone,
	}
}
