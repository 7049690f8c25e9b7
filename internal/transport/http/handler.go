// Package httptransport implements the HTTP layer for checkout requests.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jskrn-1911/clover-backend/internal/core/checkout"
	"github.com/jskrn-1911/clover-backend/internal/infra/gateway"
)

type gatewayClient interface {
	MerchantInfo(ctx context.Context) (gateway.Merchant, error)
	CreateCheckoutSession(ctx context.Context, payload checkout.SessionPayload, idempotencyKey string) (gateway.CheckoutSession, error)
}

type sessionStore interface {
	LookupSession(ctx context.Context, idempotencyKey string) ([]byte, bool, error)
	StoreSession(ctx context.Context, idempotencyKey string, response []byte) error
}

// CheckoutRequest is the inbound request body.
type CheckoutRequest struct {
	Amount       float64           `json:"amount"`
	Coupon       string            `json:"coupon,omitempty"`
	CustomerData checkout.Customer `json:"customerData,omitempty"`
}

// CheckoutResponse is the success response body.
type CheckoutResponse struct {
	CheckoutURL    string  `json:"checkoutUrl"`
	OriginalAmount float64 `json:"originalAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
	CouponApplied  string  `json:"couponApplied,omitempty"`
	SessionID      string  `json:"sessionId"`
}

// ErrorResponse is the structured error body. RetryAfter is in seconds
// and only set for rate-limited outcomes.
type ErrorResponse struct {
	Error      string  `json:"error"`
	Details    string  `json:"details,omitempty"`
	RetryAfter float64 `json:"retryAfter,omitempty"`
}

// Handler handles checkout requests.
type Handler struct {
	gateway gatewayClient
	store   sessionStore // nil disables idempotency replay
	logger  *slog.Logger
}

// New returns a Handler. store may be nil.
func New(gw gatewayClient, store sessionStore, logger *slog.Logger) *Handler {
	if gw == nil {
		panic("httptransport.New: nil gateway client")
	}
	return &Handler{gateway: gw, store: store, logger: logger}
}

// HandleCheckout processes a checkout request: validates input, applies
// the coupon, probes the gateway, and creates a hosted checkout session.
// Every path terminates in a structured JSON response.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid amount provided"})
		return
	}

	ctx := r.Context()
	pricing := checkout.Price(req.Amount, req.Coupon)

	// A caller-supplied idempotency key allows replaying an earlier
	// result instead of creating a duplicate session.
	callerKey := r.Header.Get("Idempotency-Key")
	if callerKey != "" && h.store != nil {
		cached, ok, err := h.store.LookupSession(ctx, callerKey)
		if err != nil {
			h.logger.Warn("idempotency lookup failed", "error", err)
		} else if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
	}
	idemKey := callerKey
	if idemKey == "" {
		idemKey = uuid.NewString()
	}

	if _, err := h.gateway.MerchantInfo(ctx); err != nil {
		h.writeGatewayError(w, err, "Unable to reach payment gateway")
		return
	}

	payload := checkout.BuildSessionPayload(pricing, req.CustomerData)
	session, err := h.gateway.CreateCheckoutSession(ctx, payload, idemKey)
	if err != nil {
		h.writeGatewayError(w, err, "Failed to create checkout session")
		return
	}

	resp := CheckoutResponse{
		CheckoutURL:    session.Href,
		OriginalAmount: pricing.OriginalAmount,
		DiscountAmount: pricing.DiscountAmount,
		FinalAmount:    pricing.FinalAmount,
		CouponApplied:  pricing.CouponApplied,
		SessionID:      session.ID,
	}

	if callerKey != "" && h.store != nil {
		if body, err := json.Marshal(resp); err == nil {
			if err := h.store.StoreSession(ctx, callerKey, body); err != nil {
				h.logger.Warn("idempotency store failed", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeGatewayError maps a gateway error onto the response taxonomy:
// missing credentials become a 500 configuration error, classified
// failures keep their status and rate-limit hint, anything else is a 500.
func (h *Handler) writeGatewayError(w http.ResponseWriter, err error, msg string) {
	var fail *gateway.Failure
	switch {
	case errors.Is(err, gateway.ErrMissingCredentials):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Server configuration error",
			Details: "payment gateway credentials are not configured",
		})
	case errors.As(err, &fail):
		resp := ErrorResponse{Error: msg, Details: fail.Message}
		if fail.Kind == gateway.KindRateLimited {
			resp.RetryAfter = fail.RetryAfter.Seconds()
		}
		writeJSON(w, fail.HTTPStatus(), resp)
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msg, Details: err.Error()})
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key")
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
