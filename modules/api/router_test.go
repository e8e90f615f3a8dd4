package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhub/entitlement/modules/api"
	"github.com/revuhub/entitlement/svc/billing"
	"github.com/revuhub/entitlement/svc/catalog"
	"github.com/revuhub/entitlement/svc/entitlement"
	"github.com/revuhub/entitlement/svc/subscription"
)

type staticResolver struct{}

func (staticResolver) ByID(ctx context.Context, id uuid.UUID) (*billing.Business, error) {
	return &billing.Business{ID: id, Name: "Corner Cafe"}, nil
}

type scriptedGateway struct {
	fail bool
}

func (g *scriptedGateway) InitiatePayment(ctx context.Context, req billing.PaymentRequest) (*billing.PaymentIntent, error) {
	if g.fail {
		return nil, fmt.Errorf("%w: card declined upstream", billing.ErrPaymentInitiation)
	}
	return &billing.PaymentIntent{Reference: "txn_42", PaymentURL: "https://pay.example.com/txn_42"}, nil
}

type testAPI struct {
	srv     *httptest.Server
	gateway *scriptedGateway
	basic   catalog.Plan
	premium catalog.Plan
	ent     catalog.Plan
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	basic := catalog.Plan{
		ID:   uuid.New(),
		Name: "Basic", Tier: catalog.TierBasic, Currency: "USD",
		Limits: map[catalog.Quota]int64{
			catalog.QuotaReplies:  10,
			catalog.QuotaDisputes: 2,
		},
		Active: true,
	}
	premium := catalog.Plan{
		ID:   uuid.New(),
		Name: "Premium", Tier: catalog.TierPremium, Currency: "USD",
		MonthlyPrice: 150000, AnnualPrice: 1500000,
		Limits: map[catalog.Quota]int64{
			catalog.QuotaReplies:  200,
			catalog.QuotaDisputes: 20,
		},
		Features: []catalog.Feature{catalog.FeaturePrivateReviews, catalog.FeatureAutoResponse},
		Active:   true,
	}
	ent := catalog.Plan{
		ID:   uuid.New(),
		Name: "Enterprise", Tier: catalog.TierEnterprise, Currency: "USD",
		MonthlyPrice: 400000, AnnualPrice: 4000000,
		Limits: map[catalog.Quota]int64{
			catalog.QuotaReplies:  catalog.Unlimited,
			catalog.QuotaDisputes: catalog.Unlimited,
		},
		Features: catalog.AllFeatures,
		Active:   true,
	}

	plans, err := catalog.NewService(context.Background(),
		catalog.NewInMemSource(basic, premium, ent))
	require.NoError(t, err)

	subs := subscription.NewService(subscription.NewMemoryStore())
	eval := entitlement.NewEvaluator(plans, subs)
	gateway := &scriptedGateway{}
	checkout := billing.NewCheckoutService(
		staticResolver{}, plans,
		billing.NewCalculator(billing.CalculatorConfig{FeeBps: 150, FeeCap: 2000, VATBps: 750}),
		gateway, billing.NewMemoryInvoiceStore(),
	)

	router := api.Router(api.RouterOptions{
		Plans:         plans,
		Subscriptions: subs,
		Evaluator:     eval,
		Advisor:       entitlement.NewAdvisor(plans, eval),
		Checkout:      checkout,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, gateway: gateway, basic: basic, premium: premium, ent: ent}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func (a *testAPI) subscribe(t *testing.T, businessID uuid.UUID, planID uuid.UUID) {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost,
		"/businesses/"+businessID.String()+"/subscription",
		map[string]any{"plan_id": planID, "annual": false})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestPlansEndpoints(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	t.Run("list is ordered by tier", func(t *testing.T) {
		resp, body := a.do(t, http.MethodGet, "/plans", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var plans []map[string]any
		require.NoError(t, json.Unmarshal(body, &plans))
		require.Len(t, plans, 3)
		assert.Equal(t, "basic", plans[0]["tier"])
		assert.Equal(t, "enterprise", plans[2]["tier"])
	})

	t.Run("get by id", func(t *testing.T) {
		resp, body := a.do(t, http.MethodGet, "/plans/"+a.premium.ID.String(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var plan map[string]any
		require.NoError(t, json.Unmarshal(body, &plan))
		assert.Equal(t, "Premium", plan["name"])
		assert.Contains(t, plan["features"], "private_reviews")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		resp, _ := a.do(t, http.MethodGet, "/plans/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		resp, _ := a.do(t, http.MethodGet, "/plans/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSubscriptionEndpoints(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	t.Run("create then fetch", func(t *testing.T) {
		businessID := uuid.New()
		a.subscribe(t, businessID, a.premium.ID)

		resp, body := a.do(t, http.MethodGet,
			"/businesses/"+businessID.String()+"/subscription", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var sub map[string]any
		require.NoError(t, json.Unmarshal(body, &sub))
		assert.Equal(t, "active", sub["status"])
		assert.Equal(t, a.premium.ID.String(), sub["plan_id"])
	})

	t.Run("duplicate create is 409", func(t *testing.T) {
		businessID := uuid.New()
		a.subscribe(t, businessID, a.premium.ID)

		resp, _ := a.do(t, http.MethodPost,
			"/businesses/"+businessID.String()+"/subscription",
			map[string]any{"plan_id": a.premium.ID})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("upgrade swaps the plan", func(t *testing.T) {
		businessID := uuid.New()
		a.subscribe(t, businessID, a.premium.ID)

		resp, body := a.do(t, http.MethodPut,
			"/businesses/"+businessID.String()+"/subscription",
			map[string]any{"plan_id": a.ent.ID, "annual": true})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var sub map[string]any
		require.NoError(t, json.Unmarshal(body, &sub))
		assert.Equal(t, a.ent.ID.String(), sub["plan_id"])
		assert.Equal(t, true, sub["annual"])
	})

	t.Run("cancel records the reason", func(t *testing.T) {
		businessID := uuid.New()
		a.subscribe(t, businessID, a.premium.ID)

		resp, body := a.do(t, http.MethodDelete,
			"/businesses/"+businessID.String()+"/subscription",
			map[string]any{"reason": "switching providers"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var sub map[string]any
		require.NoError(t, json.Unmarshal(body, &sub))
		assert.Equal(t, "cancelled", sub["status"])
		assert.Equal(t, "switching providers", sub["cancel_reason"])
	})

	t.Run("usage for an unsubscribed business is 404", func(t *testing.T) {
		resp, _ := a.do(t, http.MethodGet,
			"/businesses/"+uuid.NewString()+"/usage", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestEntitlementEndpoints(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	t.Run("action check follows the effective plan", func(t *testing.T) {
		businessID := uuid.New()

		// No subscription: the default tier has no private reviews.
		resp, body := a.do(t, http.MethodGet,
			"/businesses/"+businessID.String()+"/actions/private_reviews", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var check map[string]any
		require.NoError(t, json.Unmarshal(body, &check))
		assert.Equal(t, false, check["allowed"])

		a.subscribe(t, businessID, a.premium.ID)
		_, body = a.do(t, http.MethodGet,
			"/businesses/"+businessID.String()+"/actions/private_reviews", nil)
		require.NoError(t, json.Unmarshal(body, &check))
		assert.Equal(t, true, check["allowed"])
	})

	t.Run("unknown action is 400", func(t *testing.T) {
		resp, _ := a.do(t, http.MethodGet,
			"/businesses/"+uuid.NewString()+"/actions/teleport", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("feature check carries the upgrade prompt", func(t *testing.T) {
		resp, body := a.do(t, http.MethodGet,
			"/businesses/"+uuid.NewString()+"/features/dnd_mode", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var feature map[string]any
		require.NoError(t, json.Unmarshal(body, &feature))
		assert.Equal(t, false, feature["available"])
		assert.Equal(t, "enterprise", feature["required_tier"])
		assert.NotEmpty(t, feature["message"])
	})

	t.Run("upgrade comparison from the default tier", func(t *testing.T) {
		resp, body := a.do(t, http.MethodGet,
			"/businesses/"+uuid.NewString()+"/upgrade-comparison", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var cmp map[string]any
		require.NoError(t, json.Unmarshal(body, &cmp))
		recommended := cmp["recommended"].(map[string]any)
		assert.Equal(t, "premium", recommended["tier"])
	})

	t.Run("top tier has no comparison", func(t *testing.T) {
		businessID := uuid.New()
		a.subscribe(t, businessID, a.ent.ID)

		resp, _ := a.do(t, http.MethodGet,
			"/businesses/"+businessID.String()+"/upgrade-comparison", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestCheckoutEndpoints(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	t.Run("checkout then fetch the invoice", func(t *testing.T) {
		resp, body := a.do(t, http.MethodPost, "/checkout", map[string]any{
			"business_id": uuid.New(),
			"plan_id":     a.premium.ID,
			"email":       "owner@example.com",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var res map[string]any
		require.NoError(t, json.Unmarshal(body, &res))
		invoiceID := res["invoice_id"].(string)

		resp, body = a.do(t, http.MethodGet, "/invoices/"+invoiceID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var inv map[string]any
		require.NoError(t, json.Unmarshal(body, &inv))
		assert.Equal(t, "unpaid", inv["status"])
		assert.Equal(t, "https://pay.example.com/txn_42", inv["payment_url"])
		require.NotNil(t, inv["plan"])
		assert.Equal(t, "Premium", inv["plan"].(map[string]any)["name"])
	})

	t.Run("gateway failure is a 502 with the gateway message", func(t *testing.T) {
		failing := newTestAPI(t)
		failing.gateway.fail = true

		resp, body := failing.do(t, http.MethodPost, "/checkout", map[string]any{
			"business_id": uuid.New(),
			"plan_id":     failing.premium.ID,
			"email":       "owner@example.com",
		})
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var res map[string]any
		require.NoError(t, json.Unmarshal(body, &res))
		assert.Contains(t, res["error"], "card declined upstream")
	})

	t.Run("missing email is 400", func(t *testing.T) {
		resp, _ := a.do(t, http.MethodPost, "/checkout", map[string]any{
			"business_id": uuid.New(),
			"plan_id":     a.premium.ID,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown invoice is 404", func(t *testing.T) {
		resp, _ := a.do(t, http.MethodGet, "/invoices/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
