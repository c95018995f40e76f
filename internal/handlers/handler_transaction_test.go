package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const balancedBody = `{
	"transactionDate": "2024-03-01T00:00:00Z",
	"transactionType": "INVOICE",
	"description": "March invoice",
	"entries": [
		{"accountID": "ar", "side": "DEBIT", "amount": "100"},
		{"accountID": "sales", "side": "CREDIT", "amount": "100"}
	]
}`

type TransactionHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockLedger   *MockLedgerService
	mockVariance *MockVarianceService
	tenantID     string
	userID       string
}

func (suite *TransactionHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret))

	suite.mockLedger = new(MockLedgerService)
	suite.mockVariance = new(MockVarianceService)
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	tenant := suite.router.Group("/api/v1/tenants/:tenant_id")
	handlers.RegisterTransactionRoutes(tenant, suite.mockLedger)
	handlers.RegisterVarianceRoutes(tenant, suite.mockVariance)
}

func (suite *TransactionHandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	url := fmt.Sprintf("/api/v1/tenants/%s%s", suite.tenantID, path)
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, url, nil)
	} else {
		req, _ = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func postedTransaction(tenantID, id string) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:   id,
		TenantID:        tenantID,
		SequenceNumber:  "INV-2024-1",
		SequenceValue:   1,
		FiscalYear:      2024,
		TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		TransactionType: domain.DocInvoice,
		Status:          domain.StatusPosted,
		Entries: []domain.LedgerEntry{
			{EntryID: "e1", LineNumber: 1, AccountID: "ar", Side: domain.Debit, Amount: decimal.NewFromInt(100), BaseAmount: decimal.NewFromInt(100), ExchangeRate: decimal.NewFromInt(1)},
			{EntryID: "e2", LineNumber: 2, AccountID: "sales", Side: domain.Credit, Amount: decimal.NewFromInt(100), BaseAmount: decimal.NewFromInt(100), ExchangeRate: decimal.NewFromInt(1)},
		},
	}
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	suite.mockLedger.On("CreateTransaction",
		mock.Anything,
		suite.tenantID,
		mock.MatchedBy(func(r dto.CreateTransactionRequest) bool {
			return len(r.Entries) == 2 && r.Entries[0].Amount.Equal(decimal.NewFromInt(100))
		}),
		suite.userID,
	).Return(postedTransaction(suite.tenantID, "txn-1"), nil).Once()

	w := suite.do(http.MethodPost, "/transactions", balancedBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INV-2024-1", resp.SequenceNumber)
	suite.True(resp.DebitTotal.Equal(resp.CreditTotal))
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_UnbalancedCarriesTotals() {
	suite.mockLedger.On("CreateTransaction", mock.Anything, suite.tenantID, mock.Anything, suite.userID).
		Return(nil, apperrors.NewUnbalancedError(decimal.NewFromInt(100), decimal.NewFromInt(90))).Once()

	w := suite.do(http.MethodPost, "/transactions", balancedBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body map[string]any
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("100", body["debitTotal"])
	suite.Equal("90", body["creditTotal"])
	suite.Equal("10", body["difference"])
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_InvalidSideRejectedByBinding() {
	body := strings.Replace(balancedBody, `"side": "DEBIT"`, `"side": "LEFT"`, 1)

	w := suite.do(http.MethodPost, "/transactions", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_InternalErrorHidesDetails() {
	suite.mockLedger.On("CreateTransaction", mock.Anything, suite.tenantID, mock.Anything, suite.userID).
		Return(nil, errors.New("connection reset by peer")).Once()

	w := suite.do(http.MethodPost, "/transactions", balancedBody)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_NotFound() {
	suite.mockLedger.On("PostTransaction", mock.Anything, suite.tenantID, "missing", suite.userID).
		Return(nil, apperrors.NewNotFoundError("transaction", "missing")).Once()

	w := suite.do(http.MethodPost, "/transactions/missing/post", "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestVoidTransaction_AlreadyVoided() {
	suite.mockLedger.On("VoidTransaction", mock.Anything, suite.tenantID, "txn-1", suite.userID).
		Return(nil, apperrors.NewStateError("transaction", "txn-1", string(domain.StatusVoided), "already voided")).Once()

	w := suite.do(http.MethodPost, "/transactions/txn-1/void", "")

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), `"state":"VOIDED"`)
}

func (suite *TransactionHandlerTestSuite) TestVoidTransaction_Success() {
	original := postedTransaction(suite.tenantID, "txn-1")
	original.Status = domain.StatusVoided
	original.ReversedByID = "txn-2"
	reversing := postedTransaction(suite.tenantID, "txn-2")
	reversing.TransactionType = domain.DocReversal
	reversing.ReversalOfID = "txn-1"
	suite.mockLedger.On("VoidTransaction", mock.Anything, suite.tenantID, "txn-1", suite.userID).
		Return(&portssvc.VoidResult{Original: original, Reversing: reversing}, nil).Once()

	w := suite.do(http.MethodPost, "/transactions/txn-1/void", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.VoidTransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("txn-2", resp.Original.ReversedByID)
	suite.Equal("txn-1", resp.Reversing.ReversalOfID)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_PassesParams() {
	token := "abc"
	suite.mockLedger.On("ListTransactions", mock.Anything, suite.tenantID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.Limit == 5 && p.Status == domain.StatusPosted && p.NextToken != nil && *p.NextToken == token
		}),
	).Return(&dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}}, nil).Once()

	w := suite.do(http.MethodGet, "/transactions?limit=5&status=POSTED&nextToken="+token, "")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_LimitOutOfRange() {
	w := suite.do(http.MethodGet, "/transactions?limit=1000", "")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestRecordCostVariance_ConfigurationError() {
	suite.mockVariance.On("RecordCostVariance", mock.Anything, suite.tenantID, mock.Anything, suite.userID).
		Return(nil, apperrors.NewConfigurationError("variance accounts", "variance account not found")).Once()

	body := `{"standardCost":"100","actualCost":"110","varianceAccountID":"pv","offsetAccountID":"inv","varianceDate":"2024-03-01T00:00:00Z"}`
	w := suite.do(http.MethodPost, "/variances", body)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), `"mapping":"variance accounts"`)
}

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
