package gateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/taqseet/taqseet/config"
	"github.com/taqseet/taqseet/model"
)

func testClient() *Client {
	return NewClient(config.PaymentGatewayConfig{
		BaseURL:       "https://gateway.example/v2/",
		SecretKey:     "sk_test_123",
		InvoicePrefix: "inv_",
		ChargePrefix:  "chg_",
	})
}

func TestFetchEventCharge(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var authHeader string
	httpmock.RegisterResponder("GET", "https://gateway.example/v2/charges/chg_TS_1",
		func(req *http.Request) (*http.Response, error) {
			authHeader = req.Header.Get("Authorization")
			return httpmock.NewStringResponse(http.StatusOK, `{
				"id": "chg_TS_1",
				"amount": 10.5,
				"currency": "KWD",
				"status": "CAPTURED",
				"reference": {"transaction": "1001", "order": "ord_9"},
				"customer": {
					"first_name": "Ahmed",
					"last_name": "Ali",
					"email": "ahmed@example.com",
					"phone": {"country_code": "965", "number": "99887766"}
				}
			}`), nil
		})

	event, err := testClient().FetchEvent(context.Background(), "chg_TS_1")
	assert.NoError(t, err)
	assert.Equal(t, "Bearer sk_test_123", authHeader)
	assert.Equal(t, "chg_TS_1", event.GatewayID)
	assert.Equal(t, model.GatewayObjectCharge, event.ObjectType)
	assert.Equal(t, 10.5, event.Amount)
	assert.Equal(t, "KWD", event.Currency)
	assert.Equal(t, "1001", event.Reference, "transaction reference wins over order")
	assert.Equal(t, "Ahmed Ali", event.PayerName)
	assert.Equal(t, "96599887766", event.PayerPhone)
	assert.True(t, event.Completed())
	assert.NotEmpty(t, event.Payload)
}

func TestFetchEventInvoiceRouting(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://gateway.example/v2/invoices/inv_TS_1",
		httpmock.NewStringResponder(http.StatusOK, `{
			"id": "inv_TS_1",
			"amount": 120,
			"currency": "KWD",
			"status": "PAID",
			"reference": {"order": "1002"}
		}`))

	event, err := testClient().FetchEvent(context.Background(), "inv_TS_1")
	assert.NoError(t, err)
	assert.Equal(t, model.GatewayObjectInvoice, event.ObjectType)
	assert.Equal(t, "1002", event.Reference, "order reference used when transaction is absent")
	assert.True(t, event.Completed())
}

func TestFetchEventNotCompleted(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://gateway.example/v2/charges/chg_TS_2",
		httpmock.NewStringResponder(http.StatusOK, `{"id": "chg_TS_2", "status": "INITIATED"}`))

	event, err := testClient().FetchEvent(context.Background(), "chg_TS_2")
	assert.NoError(t, err)
	assert.False(t, event.Completed())
}

func TestFetchEventGatewayError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://gateway.example/v2/charges/chg_TS_3",
		httpmock.NewStringResponder(http.StatusBadGateway, `{"error": "upstream"}`))

	event, err := testClient().FetchEvent(context.Background(), "chg_TS_3")
	assert.Nil(t, event)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gateway returned 502")
}

func TestFetchEventMissingID(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://gateway.example/v2/charges/chg_TS_4",
		httpmock.NewStringResponder(http.StatusOK, `{"status": "CAPTURED"}`))

	event, err := testClient().FetchEvent(context.Background(), "chg_TS_4")
	assert.Nil(t, event)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "carries no id")
}
