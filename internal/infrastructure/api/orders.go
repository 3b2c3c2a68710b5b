package api

import (
	"context"
	"net/http"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/google/uuid"
)

type ordersResponse struct {
	Orders []*domain.Order `json:"orders"`
}

type orderResponse struct {
	Order *domain.Order `json:"order"`
}

func (c *Client) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	out, err := getShared[ordersResponse](ctx, c, "/api/orders")
	if err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	out, err := getShared[orderResponse](ctx, c, "/api/orders/"+orderID)
	if err != nil {
		return nil, err
	}
	return out.Order, nil
}

type checkoutRequest struct {
	GigID          string             `json:"gigId"`
	Tier           domain.PackageTier `json:"package"`
	IdempotencyKey string             `json:"idempotencyKey"`
}

// CreateCheckoutSession requests a hosted payment page for the gig
// package. The idempotency key guards against double submission on
// retry-after-transport-failure.
func (c *Client) CreateCheckoutSession(ctx context.Context, gigID string, tier domain.PackageTier) (*domain.CheckoutSession, error) {
	var out domain.CheckoutSession
	req := checkoutRequest{GigID: gigID, Tier: tier, IdempotencyKey: uuid.NewString()}
	if err := c.do(ctx, http.MethodPost, "/api/payments/checkout-session", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitRequirements(ctx context.Context, orderID string, answers []domain.RequirementAnswer) (*domain.Order, error) {
	var out orderResponse
	body := map[string]any{"requirements": answers}
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+orderID+"/requirements", body, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) Deliver(ctx context.Context, orderID, message string, files []domain.FileAttachment) (*domain.Order, error) {
	var out orderResponse
	body := map[string]any{"message": message, "files": files}
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+orderID+"/deliver", body, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) RequestRevision(ctx context.Context, orderID, message string) (*domain.Order, error) {
	var out orderResponse
	body := map[string]any{"message": message}
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+orderID+"/revision", body, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) AcceptDelivery(ctx context.Context, orderID string) (*domain.Order, error) {
	var out orderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+orderID+"/accept", nil, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) RequestCancellation(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	var out orderResponse
	body := map[string]any{"reason": reason}
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+orderID+"/cancel", body, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) ResolveCancellation(ctx context.Context, orderID string, approve bool) (*domain.Order, error) {
	var out orderResponse
	body := map[string]any{"approve": approve}
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+orderID+"/cancel", body, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) RaiseDispute(ctx context.Context, orderID, reason, description string) (*domain.Order, error) {
	var out orderResponse
	body := map[string]any{"reason": reason, "description": description}
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+orderID+"/dispute", body, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) MarkReviewed(ctx context.Context, orderID string) (*domain.Order, error) {
	var out orderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+orderID+"/reviewed", nil, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

var _ domain.OrderGateway = (*Client)(nil)
