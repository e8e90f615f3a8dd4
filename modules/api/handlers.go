package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/revuhub/entitlement/svc/billing"
	"github.com/revuhub/entitlement/svc/catalog"
	"github.com/revuhub/entitlement/svc/entitlement"
	"github.com/revuhub/entitlement/svc/subscription"
)

var errBadRequest = errors.New("bad request")

type handlers struct {
	plans    catalog.Service
	subs     subscription.Service
	eval     *entitlement.Evaluator
	advisor  *entitlement.Advisor
	checkout *billing.CheckoutService
	log      *slog.Logger
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID", errBadRequest, name)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	return nil
}

type planResponse struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Tier         string           `json:"tier"`
	MonthlyPrice int64            `json:"monthly_price"`
	AnnualPrice  int64            `json:"annual_price"`
	Currency     string           `json:"currency"`
	Limits       map[string]int64 `json:"limits"`
	Features     []string         `json:"features"`
}

func toPlanResponse(p *catalog.Plan) planResponse {
	limits := make(map[string]int64, len(p.Limits))
	for q, v := range p.Limits {
		limits[string(q)] = v
	}
	features := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		features = append(features, string(f))
	}
	return planResponse{
		ID:           p.ID,
		Name:         p.Name,
		Tier:         p.Tier.String(),
		MonthlyPrice: p.MonthlyPrice,
		AnnualPrice:  p.AnnualPrice,
		Currency:     p.Currency,
		Limits:       limits,
		Features:     features,
	}
}

func (h *handlers) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	out := make([]planResponse, 0, len(plans))
	for i := range plans {
		out = append(out, toPlanResponse(&plans[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handlers) getPlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "planID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	plan, err := h.plans.ByID(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlanResponse(plan))
}

type subscriptionResponse struct {
	ID           uuid.UUID  `json:"id"`
	BusinessID   uuid.UUID  `json:"business_id"`
	PlanID       uuid.UUID  `json:"plan_id"`
	Status       string     `json:"status"`
	Annual       bool       `json:"annual"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       time.Time  `json:"ends_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
}

func toSubscriptionResponse(s *subscription.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:           s.ID,
		BusinessID:   s.BusinessID,
		PlanID:       s.PlanID,
		Status:       string(s.Status),
		Annual:       s.Annual,
		StartsAt:     s.StartsAt,
		EndsAt:       s.EndsAt,
		CancelledAt:  s.CancelledAt,
		CancelReason: s.CancelReason,
	}
}

func (h *handlers) getSubscription(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathUUID(r, "businessID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	sub, err := h.subs.Get(r.Context(), businessID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

type createSubscriptionRequest struct {
	PlanID uuid.UUID `json:"plan_id"`
	Annual bool      `json:"annual"`
}

func (h *handlers) createSubscription(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathUUID(r, "businessID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req createSubscriptionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	plan, err := h.plans.ByID(r.Context(), req.PlanID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	sub, err := h.subs.Create(r.Context(), businessID, plan, req.Annual)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSubscriptionResponse(sub))
}

func (h *handlers) upgradeSubscription(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathUUID(r, "businessID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req createSubscriptionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	plan, err := h.plans.ByID(r.Context(), req.PlanID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	sub, err := h.subs.Upgrade(r.Context(), businessID, plan, req.Annual)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

type cancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

func (h *handlers) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathUUID(r, "businessID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req cancelSubscriptionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	sub, err := h.subs.Cancel(r.Context(), businessID, req.Reason)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

type usageResponse struct {
	RepliesUsed  int64     `json:"replies_used"`
	DisputesUsed int64     `json:"disputes_used"`
	ResetsAt     time.Time `json:"resets_at"`
}

func (h *handlers) getUsage(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathUUID(r, "businessID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	usage, err := h.subs.Usage(r.Context(), businessID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, usageResponse{
		RepliesUsed:  usage.RepliesUsed,
		DisputesUsed: usage.DisputesUsed,
		ResetsAt:     usage.ResetsAt,
	})
}

type canPerformResponse struct {
	Action  string `json:"action"`
	Allowed bool   `json:"allowed"`
}

func (h *handlers) canPerformAction(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathUUID(r, "businessID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	action, err := entitlement.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	allowed, err := h.eval.CanPerform(r.Context(), businessID, action)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, canPerformResponse{
		Action:  string(action),
		Allowed: allowed,
	})
}

type featureResponse struct {
	Feature      string `json:"feature"`
	Available    bool   `json:"available"`
	RequiredTier string `json:"required_tier"`
	Message      string `json:"message,omitempty"`
}

func (h *handlers) checkFeature(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathUUID(r, "businessID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	feature, err := catalog.ParseFeature(chi.URLParam(r, "feature"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	availability, err := h.eval.CheckFeature(r.Context(), businessID, feature)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, featureResponse{
		Feature:      string(feature),
		Available:    availability.Available,
		RequiredTier: availability.RequiredTier.String(),
		Message:      availability.Message,
	})
}

type planSummaryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Tier         string    `json:"tier"`
	MonthlyPrice int64     `json:"monthly_price"`
	AnnualPrice  int64     `json:"annual_price"`
	Currency     string    `json:"currency"`
}

func toPlanSummaryResponse(s entitlement.PlanSummary) planSummaryResponse {
	return planSummaryResponse{
		ID:           s.ID,
		Name:         s.Name,
		Tier:         s.Tier.String(),
		MonthlyPrice: s.MonthlyPrice,
		AnnualPrice:  s.AnnualPrice,
		Currency:     s.Currency,
	}
}

type comparisonResponse struct {
	Current           planSummaryResponse `json:"current"`
	Recommended       planSummaryResponse `json:"recommended"`
	GainedFeatures    []string            `json:"gained_features"`
	MonthlyPriceDelta int64               `json:"monthly_price_delta"`
}

func (h *handlers) upgradeComparison(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathUUID(r, "businessID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	cmp, err := h.advisor.UpgradeComparison(r.Context(), businessID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if cmp == nil {
		// Already on the top tier. A complete answer, not an error.
		respondJSON(w, http.StatusNoContent, nil)
		return
	}

	gained := make([]string, 0, len(cmp.GainedFeatures))
	for _, f := range cmp.GainedFeatures {
		gained = append(gained, string(f))
	}
	respondJSON(w, http.StatusOK, comparisonResponse{
		Current:           toPlanSummaryResponse(cmp.Current),
		Recommended:       toPlanSummaryResponse(cmp.Recommended),
		GainedFeatures:    gained,
		MonthlyPriceDelta: cmp.MonthlyPriceDelta,
	})
}

type checkoutRequest struct {
	BusinessID uuid.UUID `json:"business_id"`
	PlanID     uuid.UUID `json:"plan_id"`
	Email      string    `json:"email"`
	Annual     bool      `json:"annual"`
	Platform   string    `json:"platform,omitempty"`
}

type checkoutResponse struct {
	Message   string    `json:"message"`
	InvoiceID uuid.UUID `json:"invoice_id"`
}

func (h *handlers) postCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if req.Email == "" {
		respondError(w, r, h.log, fmt.Errorf("%w: email is required", errBadRequest))
		return
	}

	res, err := h.checkout.Checkout(r.Context(), billing.CheckoutParams{
		BusinessID: req.BusinessID,
		PlanID:     req.PlanID,
		PayerEmail: req.Email,
		Annual:     req.Annual,
		Platform:   req.Platform,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, checkoutResponse{
		Message:   res.Message,
		InvoiceID: res.InvoiceID,
	})
}

type invoicePlanResponse struct {
	Name         string `json:"name"`
	Tier         string `json:"tier"`
	MonthlyPrice int64  `json:"monthly_price"`
	AnnualPrice  int64  `json:"annual_price"`
}

type invoiceResponse struct {
	ID               uuid.UUID            `json:"id"`
	BusinessID       uuid.UUID            `json:"business_id"`
	Status           string               `json:"status"`
	Platform         string               `json:"platform"`
	Currency         string               `json:"currency"`
	BaseAmount       int64                `json:"base_amount"`
	FeeAmount        int64                `json:"fee_amount"`
	VATAmount        int64                `json:"vat_amount"`
	TotalAmount      int64                `json:"total_amount"`
	PaymentURL       string               `json:"payment_url"`
	GatewayReference string               `json:"gateway_reference"`
	CreatedAt        time.Time            `json:"created_at"`
	Plan             *invoicePlanResponse `json:"plan"`
}

func (h *handlers) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "invoiceID")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	view, err := h.checkout.GetInvoice(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := invoiceResponse{
		ID:               view.ID,
		BusinessID:       view.BusinessID,
		Status:           string(view.Status),
		Platform:         view.Platform,
		Currency:         view.Currency,
		BaseAmount:       view.BaseAmount,
		FeeAmount:        view.FeeAmount,
		VATAmount:        view.VATAmount,
		TotalAmount:      view.TotalAmount,
		PaymentURL:       view.PaymentURL,
		GatewayReference: view.GatewayReference,
		CreatedAt:        view.CreatedAt,
	}
	if view.Plan != nil {
		out.Plan = &invoicePlanResponse{
			Name:         view.Plan.Name,
			Tier:         view.Plan.Tier.String(),
			MonthlyPrice: view.Plan.MonthlyPrice,
			AnnualPrice:  view.Plan.AnnualPrice,
		}
	}
	respondJSON(w, http.StatusOK, out)
}
