package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/letsssgooo/promoBot/internal/appointment"
	"github.com/letsssgooo/promoBot/internal/coupon"
	"github.com/letsssgooo/promoBot/internal/promo"
	"github.com/letsssgooo/promoBot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClock struct {
	state promo.State
}

func (c stubClock) Now() promo.State {
	return c.state
}

type testAPI struct {
	handler http.Handler
	store   *storage.MemoryStore
	svc     *appointment.Service
}

func newTestAPI(t *testing.T, total int) *testAPI {
	t.Helper()

	return newTestAPIWithClock(t, total, stubClock{state: promo.State{
		Status:    promo.StatusActive,
		Remaining: promo.Remaining{Days: 3, Hours: 4, Minutes: 5, Seconds: 6},
	}})
}

func newTestAPIWithClock(t *testing.T, total int, clock PromoClock) *testAPI {
	t.Helper()

	st := storage.NewMemoryStore()

	gate, err := coupon.NewGate(context.Background(), st, total)
	require.NoError(t, err)

	svc := appointment.NewService(st)

	return &testAPI{
		handler: NewRouter(Deps{
			Coupons:      gate,
			Promo:        clock,
			Appointments: svc,
			CORSOrigins:  []string{"https://promo.example"},
		}),
		store: st,
		svc:   svc,
	}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, 20)

	rec := api.do(http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCoupons(t *testing.T) {
	testCases := []struct {
		name  string
		total int
		want  coupon.Status
	}{
		{name: "normal", total: 20, want: coupon.Status{Remaining: 20, Total: 20, Tier: coupon.TierNormal}},
		{name: "low", total: 4, want: coupon.Status{Remaining: 4, Total: 4, Tier: coupon.TierLow}},
		{name: "empty", total: 0, want: coupon.Status{Remaining: 0, Total: 0, Tier: coupon.TierEmpty}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t, tc.total)

			rec := api.do(http.MethodGet, "/api/coupons", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got coupon.Status
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoupons_StoreUnavailable(t *testing.T) {
	api := newTestAPI(t, 20)
	api.store.Fail(errors.New("disk is gone"))

	rec := api.do(http.MethodGet, "/api/coupons", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPromo(t *testing.T) {
	api := newTestAPI(t, 20)

	rec := api.do(http.MethodGet, "/api/promo", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t,
		`{"status":"active","remaining":{"days":3,"hours":4,"minutes":5,"seconds":6}}`,
		rec.Body.String(),
	)
}

func TestCreateAppointment(t *testing.T) {
	api := newTestAPI(t, 20)

	rec := api.do(http.MethodPost, "/api/appointments", `{
		"lastName": "Иванов",
		"firstName": "Иван",
		"phone": "8 999 123 45 67",
		"email": "ivan@example.com"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got appointment.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "+7 (999) 123-45-67", got.Phone)
	assert.WithinDuration(t, time.Now(), got.Timestamp, time.Minute)

	list, err := api.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateAppointment_Invalid(t *testing.T) {
	api := newTestAPI(t, 20)

	rec := api.do(http.MethodPost, "/api/appointments", `{"lastName":"","firstName":"Иван","phone":"123","email":"nope"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var got errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.Fields, appointment.FieldLastName)
	assert.Contains(t, got.Fields, appointment.FieldPhone)
	assert.Contains(t, got.Fields, appointment.FieldEmail)
	assert.NotContains(t, got.Fields, appointment.FieldFirstName)

	list, err := api.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateAppointment_PromoNotActive(t *testing.T) {
	testCases := []struct {
		name  string
		state promo.State
	}{
		{name: "upcoming", state: promo.State{Status: promo.StatusUpcoming, Message: promo.MsgUpcoming}},
		{name: "ended", state: promo.State{Status: promo.StatusEnded, Message: promo.MsgEnded}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPIWithClock(t, 20, stubClock{state: tc.state})

			rec := api.do(http.MethodPost, "/api/appointments", `{
				"lastName": "Иванов",
				"firstName": "Иван",
				"phone": "79991234567",
				"email": "ivan@example.com"
			}`)
			require.Equal(t, http.StatusForbidden, rec.Code)

			var got errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.state.Message, got.Error)

			list, err := api.svc.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestCreateAppointment_BadJSON(t *testing.T) {
	api := newTestAPI(t, 20)

	testCases := []struct {
		name string
		body string
	}{
		{name: "garbage", body: `{"lastName":`},
		{name: "unknown field", body: `{"age": 30}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/appointments", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t, 20)

	req := httptest.NewRequest(http.MethodOptions, "/api/coupons", nil)
	req.Header.Set("Origin", "https://promo.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://promo.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t, 20)

	rec := api.do(http.MethodDelete, "/api/coupons", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
