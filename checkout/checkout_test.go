package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yenepay/yenepay-go/api"
	"github.com/yenepay/yenepay-go/types"
)

func testIdentity() Identity {
	return Identity{MerchantID: "0000"}
}

func mustItem(t *testing.T, name string, price float64, qty int) types.Item {
	t.Helper()
	item, err := types.NewItem(name, decimal.NewFromFloat(price), qty)
	require.NoError(t, err)
	return item
}

func TestExpressURLRoundTrip(t *testing.T) {
	item := mustItem(t, "PC-1", 34000.99, 1)

	co, err := NewExpress(testIdentity(), item, types.CheckoutOptions{})
	require.NoError(t, err)

	u, err := url.Parse(co.URL())
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "Express", q.Get("Process"))
	assert.Equal(t, "0000", q.Get("MerchantId"))
	assert.Equal(t, "PC-1", q.Get("ItemName"))
	assert.Equal(t, "34000.99", q.Get("UnitPrice"))
	assert.Equal(t, "1", q.Get("Quantity"))
	assert.Equal(t, item.ID, q.Get("ItemId"))
}

func TestCartURLIndexesItems(t *testing.T) {
	items := []types.Item{
		mustItem(t, "Monitor", 8000, 2),
		mustItem(t, "Mouse", 450.50, 1),
	}

	co, err := NewCart(testIdentity(), items, types.CheckoutOptions{MerchantOrderID: "order-7"})
	require.NoError(t, err)

	u, err := url.Parse(co.URL())
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "Cart", q.Get("Process"))
	assert.Equal(t, "order-7", q.Get("MerchantOrderId"))
	assert.Equal(t, "Monitor", q.Get("Items[0].ItemName"))
	assert.Equal(t, "8000", q.Get("Items[0].UnitPrice"))
	assert.Equal(t, "2", q.Get("Items[0].Quantity"))
	assert.Equal(t, "Mouse", q.Get("Items[1].ItemName"))
	assert.Equal(t, "450.5", q.Get("Items[1].UnitPrice"))
}

func TestProductionAndSandboxHosts(t *testing.T) {
	item := mustItem(t, "PC", 100, 1)

	prod, err := NewExpress(testIdentity(), item, types.CheckoutOptions{})
	require.NoError(t, err)
	assert.Contains(t, prod.URL(), types.CheckoutProductionURL)

	sandbox, err := NewExpress(Identity{MerchantID: "0000", UseSandbox: true}, item, types.CheckoutOptions{})
	require.NoError(t, err)
	assert.Contains(t, sandbox.URL(), types.CheckoutSandboxURL)
}

func TestEmptyItemsRejected(t *testing.T) {
	_, err := NewCart(testIdentity(), nil, types.CheckoutOptions{})
	require.Error(t, err)

	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestExpressRejectsMultipleItems(t *testing.T) {
	items := []types.Item{mustItem(t, "A", 1, 1), mustItem(t, "B", 2, 1)}

	_, err := newCheckout(types.ProcessExpress, testIdentity(), items, types.CheckoutOptions{})
	require.Error(t, err)

	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestInvalidItemRejected(t *testing.T) {
	bad := types.Item{ID: "x", Name: "PC", UnitPrice: decimal.Zero, Quantity: 1}

	_, err := NewExpress(testIdentity(), bad, types.CheckoutOptions{})
	require.Error(t, err)

	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMalformedOptionURLRejected(t *testing.T) {
	item := mustItem(t, "PC", 100, 1)

	for _, bad := range []string{"not a url", "ftp://example.com/x", "/relative/path"} {
		_, err := NewExpress(testIdentity(), item, types.CheckoutOptions{SuccessURL: bad})
		require.Error(t, err, "url %q should be rejected", bad)

		var verr *types.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestOptionURLsEncoded(t *testing.T) {
	item := mustItem(t, "PC", 100, 1)
	opts := types.CheckoutOptions{
		SuccessURL: "https://merchant.example/success",
		CancelURL:  "https://merchant.example/cancel",
		IPNURL:     "https://merchant.example/ipn",
		FailureURL: "https://merchant.example/failure",
	}

	co, err := NewExpress(testIdentity(), item, opts)
	require.NoError(t, err)

	q := co.QueryValues()
	assert.Equal(t, opts.SuccessURL, q.Get("SuccessUrl"))
	assert.Equal(t, opts.CancelURL, q.Get("CancelUrl"))
	assert.Equal(t, opts.IPNURL, q.Get("IPNUrl"))
	assert.Equal(t, opts.FailureURL, q.Get("FailureUrl"))
}

func TestExpiresInDaysDefaultsToOne(t *testing.T) {
	co, err := NewExpress(testIdentity(), mustItem(t, "PC", 100, 1), types.CheckoutOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, co.Options().ExpiresInDays)
	assert.Equal(t, "1", co.QueryValues().Get("ExpiresInDays"))
}

func TestCartFees(t *testing.T) {
	delivery := decimal.NewFromFloat(150.25)
	discount := decimal.NewFromInt(50)
	opts := types.CheckoutOptions{
		TotalItemsDeliveryFee: &delivery,
		TotalItemsDiscount:    &discount,
	}

	co, err := NewCart(testIdentity(), []types.Item{mustItem(t, "PC", 100, 1)}, opts)
	require.NoError(t, err)

	q := co.QueryValues()
	assert.Equal(t, "150.25", q.Get("TotalItemsDeliveryFee"))
	assert.Equal(t, "50", q.Get("TotalItemsDiscount"))
	assert.Empty(t, q.Get("TotalItemsTax1"))
}

func TestSandboxWithProductionTokenFails(t *testing.T) {
	identity := Identity{
		MerchantID: "0000",
		PDTToken:   "01cd13eae42",
		UseSandbox: true,
	}

	_, err := NewExpress(identity, mustItem(t, "PC", 100, 1), types.CheckoutOptions{})
	require.Error(t, err)

	var cerr *types.CheckoutError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrEnvironmentMismatch, cerr.Code)
}

func TestSandboxWithSandboxTokenSucceeds(t *testing.T) {
	identity := Identity{
		MerchantID: "0000",
		PDTToken:   "test-01cd13eae42",
		UseSandbox: true,
	}

	_, err := NewExpress(identity, mustItem(t, "PC", 100, 1), types.CheckoutOptions{})
	assert.NoError(t, err)
}

// The reverse direction is documented as unvalidated: a sandbox token on a
// production client builds fine and is left for the platform to reject.
func TestProductionWithSandboxTokenUnchecked(t *testing.T) {
	identity := Identity{
		MerchantID: "0000",
		PDTToken:   "test-01cd13eae42",
	}

	_, err := NewExpress(identity, mustItem(t, "PC", 100, 1), types.CheckoutOptions{})
	assert.NoError(t, err)
}

func TestBadMerchantIDRejected(t *testing.T) {
	for _, id := range []string{"", "abc", "12a4", "123"} {
		_, err := NewExpress(Identity{MerchantID: id}, mustItem(t, "PC", 100, 1), types.CheckoutOptions{})
		require.Error(t, err, "merchant id %q should be rejected", id)

		var verr *types.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestTotalPrice(t *testing.T) {
	items := []types.Item{mustItem(t, "A", 12.5, 2), mustItem(t, "B", 5, 3)}

	co, err := NewCart(testIdentity(), items, types.CheckoutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "40", co.TotalPrice().String())
}

func TestRemoteURL(t *testing.T) {
	var received types.CheckoutRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{
			"result": "https://www.yenepay.com/checkout/Home/Process/?x=1",
		})
	}))
	defer srv.Close()

	transport := api.New(srv.Client(), types.Endpoints{URLGenerate: srv.URL})

	co, err := NewExpress(testIdentity(), mustItem(t, "PC", 100, 1), types.CheckoutOptions{MerchantOrderID: "m01x"})
	require.NoError(t, err)

	u, err := co.RemoteURL(context.Background(), transport)
	require.NoError(t, err)
	assert.Equal(t, "https://www.yenepay.com/checkout/Home/Process/?x=1", u)

	assert.Equal(t, "Express", received.Process)
	assert.Equal(t, "0000", received.MerchantID)
	assert.Equal(t, "m01x", received.MerchantOrderID)
	require.Len(t, received.Items, 1)
	assert.Equal(t, "PC", received.Items[0].Name)
}

func TestRemoteURLRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad order", http.StatusBadRequest)
	}))
	defer srv.Close()

	transport := api.New(srv.Client(), types.Endpoints{URLGenerate: srv.URL})

	co, err := NewExpress(testIdentity(), mustItem(t, "PC", 100, 1), types.CheckoutOptions{})
	require.NoError(t, err)

	_, err = co.RemoteURL(context.Background(), transport)
	require.Error(t, err)

	var cerr *types.CheckoutError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrURLRejected, cerr.Code)
}

func TestRemoteURLMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	transport := api.New(srv.Client(), types.Endpoints{URLGenerate: srv.URL})

	co, err := NewExpress(testIdentity(), mustItem(t, "PC", 100, 1), types.CheckoutOptions{})
	require.NoError(t, err)

	_, err = co.RemoteURL(context.Background(), transport)
	require.Error(t, err)

	var cerr *types.CheckoutError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrMalformedResponse, cerr.Code)
}
