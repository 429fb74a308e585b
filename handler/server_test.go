package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dsc/core"
	"dsc/service/deploy"
	"dsc/service/engine"
	"dsc/service/journal"
	"dsc/service/session"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTransactions struct {
	transactions []*core.Transaction
}

func (s *memoryTransactions) Create(ctx context.Context, transaction *core.Transaction) error {
	s.transactions = append(s.transactions, transaction)
	return nil
}

func (s *memoryTransactions) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	for _, t := range s.transactions {
		if t.TraceID == traceID {
			return t, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (s *memoryTransactions) List(ctx context.Context, offset time.Time, limit int) ([]*core.Transaction, error) {
	return s.transactions, nil
}

func (s *memoryTransactions) ListByAccount(ctx context.Context, account string, limit int) ([]*core.Transaction, error) {
	var list []*core.Transaction
	for _, t := range s.transactions {
		if t.Caller == account || t.Target == account {
			list = append(list, t)
		}
	}

	return list, nil
}

type response struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type client struct {
	t       *testing.T
	handler http.Handler
	session *session.Session
	// d deployment behind the handler
	d *deploy.Deployment
}

func (c client) do(method, path, account string, body interface{}) (int, response) {
	var header http.Header
	if account != "" {
		token, err := c.session.Issue(account, time.Minute)
		require.NoError(c.t, err)
		header = http.Header{"Authorization": []string{"Bearer " + token}}
	}

	return c.doWith(method, path, header, body)
}

func (c client) doWith(method, path string, header http.Header, body interface{}) (int, response) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	var resp response
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func newClient(t *testing.T) (client, *memoryTransactions) {
	transactions := &memoryTransactions{}
	d, err := deploy.New(core.Engine{
		Address: "engine",
		Collaterals: []core.Collateral{
			{Symbol: "WETH", AssetID: "weth", OracleID: "eth-usd", Decimals: 18, Price: "2000"},
		},
	}, engine.WithEventSink(journal.New(transactions)))
	require.NoError(t, err)

	cfg := &core.Config{Admins: []string{"admin"}}
	sess := session.New("test-secret")
	s := New(cfg, engine.Serialize(d.Engine), d, transactions, sess)
	return client{t: t, handler: s.HandleRestAPI(), session: sess, d: d}, transactions
}

func TestReadOnly(t *testing.T) {
	c, _ := newClient(t)

	code, resp := c.do(http.MethodGet, "/value?asset_id=weth&amount=15", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"value":"30000"}`, string(resp.Data))

	code, resp = c.do(http.MethodGet, "/token-amount?asset_id=weth&usd=100", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"amount":"0.05"}`, string(resp.Data))

	code, resp = c.do(http.MethodGet, "/value?asset_id=doge&amount=1", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, int(core.ErrUnknownAsset), resp.Code)

	code, _ = c.do(http.MethodGet, "/value?asset_id=weth", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = c.do(http.MethodGet, "/assets", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"asset_id":"weth","symbol":"WETH","oracle_id":"eth-usd","decimals":18,"price":"2000"}]`, string(resp.Data))

	code, resp = c.do(http.MethodGet, "/accounts/nobody", "", nil)
	require.Equal(t, http.StatusOK, code)
	var account struct {
		HealthFactor string `json:"health_factor"`
		Solvent      bool   `json:"solvent"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &account))
	assert.Equal(t, "inf", account.HealthFactor)
	assert.True(t, account.Solvent)
}

func TestLifecycle(t *testing.T) {
	c, transactions := newClient(t)

	code, _ := c.do(http.MethodPost, "/deposit", "", map[string]string{"asset_id": "weth", "amount": "1"})
	assert.Equal(t, http.StatusUnauthorized, code)

	for _, account := range []string{"alice", "bob"} {
		code, _ = c.do(http.MethodPost, "/faucet", account, map[string]string{"asset_id": "weth", "amount": "20"})
		require.Equal(t, http.StatusOK, code)
		code, _ = c.do(http.MethodPost, "/approve", account, map[string]string{"token": "weth", "amount": "20"})
		require.Equal(t, http.StatusOK, code)
	}

	code, resp := c.do(http.MethodPost, "/deposit-mint", "alice", map[string]string{
		"asset_id":   "weth",
		"collateral": "10",
		"debt":       "100",
	})
	require.Equal(t, http.StatusOK, code, resp.Msg)

	var result struct {
		TraceID string `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	code, resp = c.do(http.MethodGet, "/transactions/"+result.TraceID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"action":"deposit_collateral_and_mint"`)

	code, resp = c.do(http.MethodPost, "/mint", "alice", map[string]string{"amount": "20000"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, int(core.ErrInsufficientHealthFactor), resp.Code)

	code, resp = c.do(http.MethodGet, "/accounts/alice", "", nil)
	require.Equal(t, http.StatusOK, code)
	var account struct {
		DebtMinted      string `json:"debt_minted"`
		CollateralValue string `json:"collateral_value"`
		HealthFactor    string `json:"health_factor"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &account))
	assert.Equal(t, "100", account.DebtMinted)
	assert.Equal(t, "20000", account.CollateralValue)
	assert.Equal(t, "100", account.HealthFactor)

	// bob takes debt to liquidate alice after the crash
	code, _ = c.do(http.MethodPost, "/deposit-mint", "bob", map[string]string{"asset_id": "weth", "collateral": "20", "debt": "100"})
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodPost, "/approve", "bob", map[string]string{"token": "dsc", "amount": "100"})
	require.Equal(t, http.StatusOK, code)

	code, resp = c.do(http.MethodPost, "/liquidate", "bob", map[string]string{"asset_id": "weth", "account": "alice", "debt": "100"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, int(core.ErrHealthFactorOk), resp.Code)

	code, _ = c.do(http.MethodPost, "/prices", "bob", map[string]string{"asset_id": "weth", "price": "18"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = c.do(http.MethodPost, "/prices", "admin", map[string]string{"asset_id": "weth", "price": "18"})
	require.Equal(t, http.StatusOK, code)

	code, resp = c.do(http.MethodPost, "/liquidate", "bob", map[string]string{"asset_id": "weth", "account": "alice", "debt": "100"})
	require.Equal(t, http.StatusOK, code, resp.Msg)

	code, resp = c.do(http.MethodGet, "/accounts/alice", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &account))
	assert.Equal(t, "0", account.DebtMinted)
	assert.Equal(t, "inf", account.HealthFactor)

	code, resp = c.do(http.MethodGet, "/accounts/alice/transactions", "", nil)
	require.Equal(t, http.StatusOK, code)
	var list []struct {
		Action string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "liquidate", list[1].Action)
	assert.Len(t, transactions.transactions, 3)
}

func TestForgedAccount(t *testing.T) {
	c, _ := newClient(t)
	price := map[string]string{"asset_id": "weth", "price": "1"}

	code, _ := c.doWith(http.MethodPost, "/prices", http.Header{"X-Account": []string{"admin"}}, price)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.doWith(http.MethodPost, "/prices", http.Header{"Authorization": []string{"Bearer admin"}}, price)
	assert.Equal(t, http.StatusUnauthorized, code)

	forged, err := session.New("guessed").Issue("admin", time.Minute)
	require.NoError(t, err)
	code, _ = c.doWith(http.MethodPost, "/prices", http.Header{"Authorization": []string{"Bearer " + forged}}, price)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/prices", "bob", price)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := c.do(http.MethodGet, "/assets", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"price":"2000"`)
}

func TestRetriedRequest(t *testing.T) {
	c, transactions := newClient(t)

	code, _ := c.do(http.MethodPost, "/faucet", "alice", map[string]string{"asset_id": "weth", "amount": "5"})
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodPost, "/approve", "alice", map[string]string{"token": "weth", "amount": "5"})
	require.Equal(t, http.StatusOK, code)

	token, err := c.session.Issue("alice", time.Minute)
	require.NoError(t, err)
	header := http.Header{
		"Authorization": []string{"Bearer " + token},
		"X-Request-Id":  []string{"retry-1"},
	}

	var results []struct {
		TraceID  string `json:"trace_id"`
		Replayed bool   `json:"replayed"`
	}
	for i := 0; i < 2; i++ {
		code, resp := c.doWith(http.MethodPost, "/deposit", header, map[string]string{"asset_id": "weth", "amount": "1"})
		require.Equal(t, http.StatusOK, code, resp.Msg)

		var result struct {
			TraceID  string `json:"trace_id"`
			Replayed bool   `json:"replayed"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &result))
		results = append(results, result)
	}

	assert.Equal(t, results[0].TraceID, results[1].TraceID)
	assert.False(t, results[0].Replayed)
	assert.True(t, results[1].Replayed)
	assert.Equal(t, "1000000000000000000", c.d.Engine.CollateralBalance("alice", "weth").Dec())
	assert.Len(t, transactions.transactions, 1)

	// the same request id names a different operation
	code, resp := c.doWith(http.MethodPost, "/redeem", header, map[string]string{"asset_id": "weth", "amount": "1"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, int(core.ErrRequestConflict), resp.Code)

	// request ids are scoped to the caller
	code, _ = c.do(http.MethodPost, "/faucet", "bob", map[string]string{"asset_id": "weth", "amount": "1"})
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodPost, "/approve", "bob", map[string]string{"token": "weth", "amount": "1"})
	require.Equal(t, http.StatusOK, code)

	bob, err := c.session.Issue("bob", time.Minute)
	require.NoError(t, err)
	code, resp = c.doWith(http.MethodPost, "/deposit", http.Header{
		"Authorization": []string{"Bearer " + bob},
		"X-Request-Id":  []string{"retry-1"},
	}, map[string]string{"asset_id": "weth", "amount": "1"})
	require.Equal(t, http.StatusOK, code, resp.Msg)
	assert.Equal(t, "1000000000000000000", c.d.Engine.CollateralBalance("bob", "weth").Dec())
	assert.Len(t, transactions.transactions, 2)
}
