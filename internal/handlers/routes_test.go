package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// RoutesTestSuite drives the full router against the in-memory store.
type RoutesTestSuite struct {
	suite.Suite
	router *gin.Engine
	token  string
}

func TestRoutes(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

func (suite *RoutesTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
	suite.token = generateTestToken("clerk-1")
}

func (suite *RoutesTestSuite) SetupTest() {
	cfg := &config.Config{JWTSecret: testJWTSecret, IsProduction: true}
	container := services.NewContainer(memory.New(), services.ContainerOptions{})

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *RoutesTestSuite) call(method, path, body string, out any) int {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func (suite *RoutesTestSuite) createAccount(tenantPath, body string) dto.AccountResponse {
	var acc dto.AccountResponse
	suite.Require().Equal(http.StatusCreated, suite.call(http.MethodPost, tenantPath+"/accounts", body, &acc))
	return acc
}

func (suite *RoutesTestSuite) TestHealth() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RoutesTestSuite) TestPostAndVoidThroughAPI() {
	var tenant dto.TenantResponse
	suite.Require().Equal(http.StatusCreated, suite.call(http.MethodPost, "/api/v1/tenants",
		`{"name":"Acme","baseCurrencyCode":"USD"}`, &tenant))
	suite.Equal("clerk-1", tenant.CreatedBy)
	base := "/api/v1/tenants/" + tenant.TenantID

	ar := suite.createAccount(base, `{"code":"1100","name":"Receivables","accountType":"ASSET"}`)
	sales := suite.createAccount(base, `{"code":"4000","name":"Sales","accountType":"REVENUE"}`)

	var txn dto.TransactionResponse
	suite.Require().Equal(http.StatusCreated, suite.call(http.MethodPost, base+"/transactions", `{
		"transactionDate": "2024-03-15T00:00:00Z",
		"transactionType": "INVOICE",
		"entries": [
			{"accountID": "`+ar.AccountID+`", "side": "DEBIT", "amount": "100"},
			{"accountID": "`+sales.AccountID+`", "side": "CREDIT", "amount": "100"}
		]
	}`, &txn))
	suite.Equal("INV-2024-1", txn.SequenceNumber)

	var bal dto.AccountBalanceResponse
	suite.Require().Equal(http.StatusOK, suite.call(http.MethodGet, base+"/accounts/"+ar.AccountID+"/balance", "", &bal))
	suite.Equal("100", bal.Balance.String())

	var tree []dto.BalanceNodeResponse
	suite.Require().Equal(http.StatusOK, suite.call(http.MethodGet, base+"/balances?as_of=2024-03-14", "", &tree))
	suite.Require().Len(tree, 2)
	suite.True(tree[0].RolledUpBalance.IsZero())

	var voided dto.VoidTransactionResponse
	suite.Require().Equal(http.StatusOK, suite.call(http.MethodPost, base+"/transactions/"+txn.TransactionID+"/void", "", &voided))
	suite.Equal("VOIDED", string(voided.Original.Status))
	suite.Equal("REVERSAL", string(voided.Reversing.TransactionType))

	suite.Equal(http.StatusConflict, suite.call(http.MethodPost, base+"/transactions/"+txn.TransactionID+"/void", "", nil))

	var drifts []dto.BalanceDriftResponse
	suite.Require().Equal(http.StatusOK, suite.call(http.MethodPost, base+"/balances/reconcile", "", &drifts))
	suite.Empty(drifts)
}

func (suite *RoutesTestSuite) TestUnknownTenantAndBadDate() {
	suite.Equal(http.StatusNotFound, suite.call(http.MethodGet, "/api/v1/tenants/missing", "", nil))
	suite.Equal(http.StatusBadRequest, suite.call(http.MethodGet, "/api/v1/tenants/missing/balances?as_of=15-03-2024", "", nil))
}

func (suite *RoutesTestSuite) TestSwaggerHiddenInProduction() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusNotFound, w.Code)
}
