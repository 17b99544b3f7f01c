package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joooonis/incourserun-checkout/internal/catalog"
	"github.com/joooonis/incourserun-checkout/internal/checkout"
	"github.com/joooonis/incourserun-checkout/internal/pkg/auth"
	"github.com/joooonis/incourserun-checkout/internal/profile"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
	backendclient "github.com/joooonis/incourserun-checkout/internal/storefront/infra/adapters/backend"
	gatewayclient "github.com/joooonis/incourserun-checkout/internal/storefront/infra/adapters/gateway"
)

var testSecret = []byte("test-secret")

// fakeBackendServer emulates the commerce backend over httptest so the full
// stack (router, auth middleware, REST client) is exercised.
type fakeBackendServer struct {
	srv *httptest.Server

	gatewayCalls atomic.Int64
	cartCalls    atomic.Int64
}

func newFakeBackendServer(t *testing.T) *fakeBackendServer {
	t.Helper()
	f := &fakeBackendServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]entity.Product{
			{ID: 1, Name: "데일리 클렌저", Price: 25000, Capacity: 200, Rating: 4.8},
			{ID: 2, Name: "수분 크림", Price: 12000, Capacity: 50, Rating: 4.5},
		})
	})
	mux.HandleFunc("GET /v1/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("user"))
		_ = json.NewEncoder(w).Encode([]entity.PlacedOrder{
			{
				ID:         41,
				CreatedAt:  time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC),
				TotalPrice: 50000,
				OrderProducts: []entity.PlacedOrderProduct{
					{ID: 1, Product: 1, Quantity: 2, HasReview: true, ShippingStatus: "배송완료"},
					{ID: 2, Product: 99, Quantity: 1},
				},
			},
			{
				ID:         40,
				CreatedAt:  time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
				TotalPrice: 12000,
				OrderProducts: []entity.PlacedOrderProduct{
					{ID: 3, Product: 2, Quantity: 1},
				},
			},
		})
	})
	mux.HandleFunc("GET /v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		_ = json.NewEncoder(w).Encode(entity.User{
			ID: 7, Name: "김인코스", Nickname: "코스런",
			Email: "incourse@example.com", Phone: "010-1234-5678",
			Address: "서울시 강남구 테헤란로 1", AddressDetail: "101호",
			IsRegister: true,
		})
	})
	mux.HandleFunc("PATCH /v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		var update entity.ProfileUpdate
		_ = json.NewDecoder(r.Body).Decode(&update)
		_ = json.NewEncoder(w).Encode(entity.User{ID: 7, Name: update.Name, Nickname: update.Nickname, IsRegister: true})
	})
	mux.HandleFunc("POST /v1/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Idempotency-Key"))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(entity.CreatedOrder{ID: 42, MerchantUID: "merchant_42", TotalPaid: 50000})
	})
	mux.HandleFunc("POST /v1/orders/payment/complete", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entity.PaymentConfirmation{
			Status: entity.PaymentStatusPaid,
			Order:  entity.ConfirmedOrder{ID: 42},
		})
	})
	mux.HandleFunc("POST /v1/carts", func(w http.ResponseWriter, r *http.Request) {
		f.cartCalls.Add(1)
		w.WriteHeader(http.StatusCreated)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestAPI(t *testing.T) (http.Handler, *fakeBackendServer) {
	t.Helper()
	backendSrv := newFakeBackendServer(t)

	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendSrv.gatewayCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(gatewaySrv.Close)

	backend := backendclient.NewClient(backendSrv.srv.URL, nil)
	gw := gatewayclient.NewClient(gatewaySrv.URL, "imp61247005", nil)
	cat := catalog.NewService(backend, nil)
	prof := profile.NewService(backend)
	ctrl := checkout.NewController(backend, gw, cat, nil, "http://localhost:3000/order/payment/complete/mobile")

	handler := NewHandler(cat, prof, backend, ctrl)
	return NewRouter(handler, testSecret), backendSrv
}

func authedRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)

	token, err := auth.GenerateToken(testSecret, 7, "코스런")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func doJSON(t *testing.T, router http.Handler, req *http.Request, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestUnauthenticated(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListProducts(t *testing.T) {
	router, _ := newTestAPI(t)

	var products []ProductResponse
	rec := doJSON(t, router, authedRequest(t, http.MethodGet, "/v1/products", nil), &products)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, products, 2)
	assert.Equal(t, "데일리 클렌저", products[0].Name)
	assert.Equal(t, "25,000", products[0].DisplayPrice)
	assert.Equal(t, "12,000", products[1].DisplayPrice)
}

func TestListOrders(t *testing.T) {
	router, _ := newTestAPI(t)

	var orders []OrderHistoryResponse
	rec := doJSON(t, router, authedRequest(t, http.MethodGet, "/v1/orders", nil), &orders)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, int64(41), first.ID)
	assert.Equal(t, "2026-08-15", first.OrderDate)
	assert.True(t, first.FreeDelivery)
	require.Len(t, first.OrderProducts, 2)
	assert.Equal(t, "데일리 클렌저", first.OrderProducts[0].Product.Name)
	assert.True(t, first.OrderProducts[0].HasReview)
	assert.Equal(t, "배송완료", first.OrderProducts[0].ShippingStatus)
	// Product 99 is no longer in the catalog; the join leaves it blank.
	assert.Zero(t, first.OrderProducts[1].Product.ID)

	second := orders[1]
	assert.False(t, second.FreeDelivery)
	assert.Equal(t, "수분 크림", second.OrderProducts[0].Product.Name)
}

func TestGetMe(t *testing.T) {
	router, _ := newTestAPI(t)

	var user entity.User
	rec := doJSON(t, router, authedRequest(t, http.MethodGet, "/v1/users/me", nil), &user)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "코스런", user.Nickname)
}

func TestUpdateMeValidation(t *testing.T) {
	router, _ := newTestAPI(t)

	update := entity.ProfileUpdate{
		Name: "김인코스", Nickname: "a",
		Email: "incourse@example.com", Phone: "010-1234-5678",
	}
	var res ErrorResponse
	rec := doJSON(t, router, authedRequest(t, http.MethodPatch, "/v1/users/me", update), &res)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_profile", res.Error)
}

func TestUpdateMe(t *testing.T) {
	router, _ := newTestAPI(t)

	update := entity.ProfileUpdate{
		Name: "김인코스", Nickname: "코스런",
		Email: "incourse@example.com", Phone: "010-1234-5678",
		AgreeAllTerms: true, IsRegister: true,
	}
	var user entity.User
	rec := doJSON(t, router, authedRequest(t, http.MethodPatch, "/v1/users/me", update), &user)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, user.IsRegister)
}

func TestAddCart(t *testing.T) {
	router, backendSrv := newTestAPI(t)

	rec := doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/carts", AddCartRequest{Product: 2, Quantity: 1}), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), backendSrv.cartCalls.Load())

	var res ErrorResponse
	rec = doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/carts", AddCartRequest{Product: 2, Quantity: 0}), &res)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartCheckoutUnknownProduct(t *testing.T) {
	router, _ := newTestAPI(t)

	var res ErrorResponse
	rec := doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout", StartCheckoutRequest{Product: 99, Quantity: 1}), &res)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product_not_found", res.Error)
}

func TestGetCheckoutUnknown(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, authedRequest(t, http.MethodGet, "/v1/checkout/no-such-id", nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrdererWithLookup(t *testing.T) {
	router, _ := newTestAPI(t)

	var created CheckoutResponse
	rec := doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout", StartCheckoutRequest{Product: 1, Quantity: 1}), &created)
	require.Equal(t, http.StatusCreated, rec.Code)

	phone := "01099990000"
	lookupAddr := "서울시 마포구 월드컵로 10"
	var updated CheckoutResponse
	rec = doJSON(t, router, authedRequest(t, http.MethodPatch, "/v1/checkout/"+created.ID+"/orderer",
		UpdateOrdererRequest{Phone: &phone, LookupAddress: &lookupAddr}), &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "010-9999-0000", updated.Orderer.Phone)
}

func TestPayValidationFailure(t *testing.T) {
	router, _ := newTestAPI(t)

	var created CheckoutResponse
	rec := doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout", StartCheckoutRequest{Product: 1, Quantity: 1}), &created)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Shipping form is still empty.
	var res ErrorResponse
	rec = doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout/"+created.ID+"/pay", nil), &res)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_failed", res.Error)
	assert.NotEmpty(t, res.Fields)
}

func TestCallbackUnknownSession(t *testing.T) {
	router, _ := newTestAPI(t)

	body := PaymentCallbackRequest{Success: true, MerchantUID: "merchant_unknown", ImpUID: "imp_1"}
	raw, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewReader(raw)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallbackMissingMerchantUID(t *testing.T) {
	router, _ := newTestAPI(t)

	raw, _ := json.Marshal(PaymentCallbackRequest{Success: true})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewReader(raw)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutLifecycle(t *testing.T) {
	router, backendSrv := newTestAPI(t)

	// Start: totals computed, orderer prefilled from the profile.
	var created CheckoutResponse
	rec := doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout", StartCheckoutRequest{Product: 1, Quantity: 2}), &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "OPEN", created.Status)
	assert.Equal(t, int64(50000), created.TotalPrice)
	assert.Equal(t, int64(0), created.DeliveryFee)
	assert.Equal(t, int64(50000), created.TotalPaid)
	assert.Equal(t, "50,000", created.DisplayTotalPaid)
	assert.Equal(t, "0", created.DisplayDeliveryFee)
	assert.Equal(t, "김인코스", created.Orderer.Name)
	assert.Equal(t, "INCOMPLETE", created.SubmitState)

	// Same-as-orderer copies the profile into the shipping form.
	sameAsOrderer := true
	detail := "101호"
	var updated CheckoutResponse
	rec = doJSON(t, router, authedRequest(t, http.MethodPatch, "/v1/checkout/"+created.ID+"/shipping",
		UpdateShippingRequest{SameAsOrderer: &sameAsOrderer, AddressDetail: &detail}), &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "김인코스", updated.Shipping.Name)
	assert.Equal(t, "101호", updated.Shipping.AddressDetail)

	// Both checkboxes enable submission.
	checked := true
	rec = doJSON(t, router, authedRequest(t, http.MethodPatch, "/v1/checkout/"+created.ID+"/agreements",
		UpdateAgreementsRequest{PayMethod: &checked}), &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "METHOD_SELECTED", updated.SubmitState)

	rec = doJSON(t, router, authedRequest(t, http.MethodPatch, "/v1/checkout/"+created.ID+"/agreements",
		UpdateAgreementsRequest{Agreement: &checked}), &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY_TO_SUBMIT", updated.SubmitState)

	// Pay launches the detached flow.
	rec = doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout/"+created.ID+"/pay", nil), &updated)
	require.Equal(t, http.StatusAccepted, rec.Code)

	// The gateway answers through the callback endpoint once the pending
	// slot is registered.
	raw, _ := json.Marshal(PaymentCallbackRequest{Success: true, MerchantUID: "merchant_42", ImpUID: "imp_777"})
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewReader(raw)))
		return rec.Code == http.StatusNoContent
	}, 2*time.Second, 10*time.Millisecond)

	// Polling lands on PAID with the confirmation route.
	var final CheckoutResponse
	require.Eventually(t, func() bool {
		rec := doJSON(t, router, authedRequest(t, http.MethodGet, "/v1/checkout/"+created.ID, nil), &final)
		return rec.Code == http.StatusOK && final.Status == "PAID"
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int64(42), final.OrderID)
	assert.Equal(t, "/order/payment/complete/42", final.RedirectURL)
	assert.Equal(t, checkout.RedirectDelay.Milliseconds(), final.RedirectDelayMS)
	assert.Equal(t, int64(1), backendSrv.gatewayCalls.Load())

	// A second pay on the settled session is rejected.
	var res ErrorResponse
	rec = doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout/"+created.ID+"/pay", nil), &res)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_submitted", res.Error)
}

func TestCheckoutDeclinedPayment(t *testing.T) {
	router, _ := newTestAPI(t)

	var created CheckoutResponse
	rec := doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout", StartCheckoutRequest{Product: 1, Quantity: 1}), &created)
	require.Equal(t, http.StatusCreated, rec.Code)

	sameAsOrderer := true
	detail := "101호"
	doJSON(t, router, authedRequest(t, http.MethodPatch, "/v1/checkout/"+created.ID+"/shipping",
		UpdateShippingRequest{SameAsOrderer: &sameAsOrderer, AddressDetail: &detail}), nil)
	checked := true
	doJSON(t, router, authedRequest(t, http.MethodPatch, "/v1/checkout/"+created.ID+"/agreements",
		UpdateAgreementsRequest{PayMethod: &checked, Agreement: &checked}), nil)

	rec = doJSON(t, router, authedRequest(t, http.MethodPost, "/v1/checkout/"+created.ID+"/pay", nil), nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	raw, _ := json.Marshal(PaymentCallbackRequest{Success: false, MerchantUID: "merchant_42", ErrorMsg: "card declined"})
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewReader(raw)))
		return rec.Code == http.StatusNoContent
	}, 2*time.Second, 10*time.Millisecond)

	var final CheckoutResponse
	require.Eventually(t, func() bool {
		rec := doJSON(t, router, authedRequest(t, http.MethodGet, "/v1/checkout/"+created.ID, nil), &final)
		return rec.Code == http.StatusOK && final.Status == "FAILED"
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "결제 실패: card declined", final.ErrorMessage)
	assert.Empty(t, final.RedirectURL)
}
