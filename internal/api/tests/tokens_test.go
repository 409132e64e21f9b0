package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civitoken/server/internal/api/testutils"
	"github.com/civitoken/server/internal/models"
)

func TestGetTransactions(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: seeded history, newest first
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet,
		"/api/tokens/transactions?userEmail="+testutils.DemoEmail, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var transactions []models.TokenTransaction
	testutils.DecodeJSON(t, w, &transactions)
	require.Len(t, transactions, 3)

	for i := 1; i < len(transactions); i++ {
		assert.False(t, transactions[i].CreatedAt.After(transactions[i-1].CreatedAt),
			"transactions must be sorted newest-first")
	}
	assert.Equal(t, models.TxRewardRedemption, transactions[0].Type)
	assert.Equal(t, int64(-80), transactions[0].Amount)

	// Test case 2: missing userEmail parameter
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/tokens/transactions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "userEmail query parameter is required", errResp.Error)

	// Test case 3: unknown user
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		"/api/tokens/transactions?userEmail=nobody@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBalance(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Seeded ledger: +150 +100 -80
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet,
		"/api/tokens/balance?userEmail="+testutils.DemoEmail, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var balance models.BalanceResponse
	testutils.DecodeJSON(t, w, &balance)
	assert.Equal(t, testutils.DemoEmail, balance.UserEmail)
	assert.Equal(t, int64(170), balance.Balance)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/tokens/balance", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRedeemTokens(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: redemption is recorded as a negative transaction
	redeemReq := models.RedeemTokensRequest{
		UserEmail:   testutils.DemoEmail,
		Amount:      50,
		Description: "Coffee voucher",
	}

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/tokens/redeem", redeemReq)
	assert.Equal(t, http.StatusCreated, w.Code)

	var transaction models.TokenTransaction
	testutils.DecodeJSON(t, w, &transaction)
	assert.Equal(t, models.TxRewardRedemption, transaction.Type)
	assert.Equal(t, int64(-50), transaction.Amount)
	assert.Equal(t, "Coffee voucher", transaction.Description)

	assert.Equal(t, int64(120), balanceOf(t, testCtx, testutils.DemoEmail))

	// Test case 2: no floor on the balance
	redeemReq.Amount = 1000
	redeemReq.Description = "Season festival pass"

	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/tokens/redeem", redeemReq)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(-880), balanceOf(t, testCtx, testutils.DemoEmail))

	// Test case 3: zero or negative amounts are rejected
	redeemReq.Amount = -10
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/tokens/redeem", redeemReq)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// The balance reported anywhere must equal the sum of the user's recorded
// transaction amounts, after any sequence of ledger operations.
func TestBalanceMatchesTransactionSum(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	registerReq := models.RegisterForEventRequest{UserEmail: testutils.DemoEmail}
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/events/2/register", registerReq)
	require.Equal(t, http.StatusCreated, w.Code)

	redeemReq := models.RedeemTokensRequest{
		UserEmail:   testutils.DemoEmail,
		Amount:      30,
		Description: "Raffle ticket",
	}
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/tokens/redeem", redeemReq)
	require.Equal(t, http.StatusCreated, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		"/api/tokens/transactions?userEmail="+testutils.DemoEmail, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var transactions []models.TokenTransaction
	testutils.DecodeJSON(t, w, &transactions)

	var sum int64
	for _, tx := range transactions {
		sum += tx.Amount
	}

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		"/api/tokens/balance?userEmail="+testutils.DemoEmail, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var balance models.BalanceResponse
	testutils.DecodeJSON(t, w, &balance)
	assert.Equal(t, sum, balance.Balance)
}
