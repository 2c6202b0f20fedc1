package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taqseet/taqseet"
	"github.com/taqseet/taqseet/config"
	"github.com/taqseet/taqseet/database/mocks"
	"github.com/taqseet/taqseet/model"
)

func setupRouter(t *testing.T, mockDS *mocks.MockDataSource) *gin.Engine {
	t.Helper()

	config.MockConfig(&config.Configuration{
		ProjectName: "Taqseet Test",
		DataSource:  config.DataSourceConfig{Dns: "postgres://mock"},
		PaymentGateway: config.PaymentGatewayConfig{
			BaseURL:       "https://gateway.example/v2",
			SecretKey:     "sk_test_123",
			InvoicePrefix: "inv_",
			ChargePrefix:  "chg_",
		},
	})

	service, err := taqseet.NewTaqseet(mockDS)
	require.NoError(t, err)

	return NewAPI(service).Router()
}

func importPayload() map[string]interface{} {
	return map[string]interface{}{
		"rows": []map[string]string{
			{"Customer No": "7", "Txn No": "1001", "Total": "120", "Installments": "12", "Start": "15/01/2024"},
			{"Customer No": "999", "Txn No": "1002", "Total": "60", "Installments": "6", "Start": "15/01/2024"},
		},
		"mapping": map[string]string{
			"Customer No":  model.FieldCustomerSequence,
			"Txn No":       model.FieldTransactionSequence,
			"Total":        model.FieldTotalAmount,
			"Installments": model.FieldInstallments,
			"Start":        model.FieldStartDate,
		},
	}
}

func TestImportEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	mockDS.On("GetAllCustomers", mock.Anything).Return([]model.Customer{
		{CustomerID: "cust_1", SequenceNumber: "7", FullName: "Ahmed Ali"},
	}, nil)
	mockDS.On("GetTransactionSequenceNumbers", mock.Anything).Return(map[string]struct{}{}, nil)
	mockDS.On("RecordTransaction", mock.Anything, mock.Anything).Return(&model.Transaction{TransactionID: "txn_1"}, nil)
	mockDS.On("RefreshOverdueStatuses", mock.Anything).Return(nil)

	body, _ := json.Marshal(importPayload())
	req := httptest.NewRequest(http.MethodPost, "/imports", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var summary model.ImportSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Imported)
	assert.Len(t, summary.Errors, 1)
	assert.Equal(t, 3, summary.Errors[0].Row)
}

func TestImportEndpointRejectsMissingMapping(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	req := httptest.NewRequest(http.MethodPost, "/imports", bytes.NewReader([]byte(`{"rows": []}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestImportFileEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	mockDS.On("GetAllCustomers", mock.Anything).Return([]model.Customer{
		{CustomerID: "cust_1", SequenceNumber: "7", FullName: "Ahmed Ali"},
	}, nil)
	mockDS.On("GetTransactionSequenceNumbers", mock.Anything).Return(map[string]struct{}{}, nil)
	mockDS.On("RecordTransaction", mock.Anything, mock.Anything).Return(&model.Transaction{TransactionID: "txn_1"}, nil)
	mockDS.On("RefreshOverdueStatuses", mock.Anything).Return(nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "import.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Customer No,Txn No,Total,Installments,Start\n7,1001,120,12,15/01/2024\n"))
	require.NoError(t, err)
	mapping, _ := json.Marshal(importPayload()["mapping"])
	require.NoError(t, writer.WriteField("mapping", string(mapping)))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/imports/file", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var summary model.ImportSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Imported)
	assert.Empty(t, summary.Errors)
}

func TestRetryEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	mockDS.On("GetAllCustomers", mock.Anything).Return([]model.Customer{
		{CustomerID: "cust_1", SequenceNumber: "999", FullName: "Fahad Saad"},
	}, nil)
	mockDS.On("GetTransactionSequenceNumbers", mock.Anything).Return(map[string]struct{}{}, nil)
	mockDS.On("RecordTransaction", mock.Anything, mock.Anything).Return(&model.Transaction{TransactionID: "txn_retry"}, nil)
	mockDS.On("RefreshOverdueStatuses", mock.Anything).Return(nil)

	payload := map[string]interface{}{
		"row":     map[string]string{"Customer No": "999", "Txn No": "1002", "Total": "60", "Installments": "6", "Start": "15/01/2024"},
		"mapping": importPayload()["mapping"],
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/imports/retry", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var summary model.ImportSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Imported)
}

func TestExportErrorsEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	payload := map[string]interface{}{
		"columns": []string{"Customer No", "Txn No"},
		"errors": []model.ImportError{
			{Row: 3, Message: "customer not found", OriginalData: model.ImportRow{"Customer No": "999", "Txn No": "1002"}},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/imports/errors/export", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "import_errors.csv")
	assert.Contains(t, resp.Body.String(), "Customer No,Txn No,error_message")
	assert.Contains(t, resp.Body.String(), "999,1002,customer not found")
}

func TestWebhookEndpoint(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	httpmock.RegisterResponder("GET", "https://gateway.example/v2/charges/chg_TS_1",
		httpmock.NewStringResponder(http.StatusOK, `{
			"id": "chg_TS_1",
			"amount": 10,
			"currency": "KWD",
			"status": "CAPTURED",
			"reference": {"transaction": "1001"}
		}`))

	mockDS.On("GetTransactionBySequence", mock.Anything, "1001").Return(&model.Transaction{
		TransactionID: "txn_1",
		CustomerID:    "cust_1",
	}, nil)
	mockDS.On("UpsertReconciliationEvent", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader([]byte(`{"id": "chg_TS_1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "CAPTURED", out["status"])
}

func TestWebhookEndpointMissingID(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestWebhookEndpointVerificationFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	httpmock.RegisterResponder("GET", "https://gateway.example/v2/charges/chg_TS_down",
		httpmock.NewStringResponder(http.StatusBadGateway, `{"error": "upstream"}`))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader([]byte(`{"id": "chg_TS_down"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// 500 keeps the gateway retrying until verification succeeds.
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockDS.AssertNotCalled(t, "UpsertReconciliationEvent", mock.Anything, mock.Anything)
}

func TestWebhookPreflight(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	req := httptest.NewRequest(http.MethodOptions, "/webhooks/payments", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}
