package blockchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swagftw/pychain/pkg/blockchain"
	"github.com/swagftw/pychain/pkg/ledger"
	"github.com/swagftw/pychain/types"
	"github.com/swagftw/pychain/utl/server"
	"github.com/swagftw/pychain/utl/server/fault"
)

func newTestEcho(t *testing.T, difficulty int) (*echo.Echo, *blockchain.Chain) {
	t.Helper()

	chain, err := blockchain.NewChain(blockchain.GenesisRecord, 0, difficulty)
	require.NoError(t, err)

	e := server.InitEcho()
	NewHTTP(e.Group("/v1"), ledger.NewService(chain, ledger.Options{}))

	return e, chain
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeFault(t *testing.T, rec *httptest.ResponseRecorder) *fault.HTTPError {
	t.Helper()

	httpErr := new(fault.HTTPError)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), httpErr))

	return httpErr
}

func TestAddBlockAndValidate(t *testing.T) {
	e, chain := newTestEcho(t, 2)

	rec := do(e, http.MethodPost, "/v1/chain/blocks", `{"sender":"alice","receiver":"bob","amount":10,"creatorId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	block := new(types.Block)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), block))
	assert.True(t, strings.HasPrefix(block.Hash, "00"))
	assert.Equal(t, 1, block.Index)
	assert.Equal(t, 2, chain.Len())

	rec = do(e, http.MethodGet, "/v1/chain/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)

	validation := new(types.Validation)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), validation))
	assert.Equal(t, types.Validation{Valid: true, Length: 2, FirstInvalid: -1}, *validation)

	rec = do(e, http.MethodGet, "/v1/chain/blocks/"+block.Hash, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/v1/chain", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := new(types.Blockchain)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	assert.Len(t, resp.Blocks, 2)
	assert.Equal(t, 2, resp.Difficulty)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing sender",
			method:   http.MethodPost,
			target:   "/v1/chain/blocks",
			body:     `{"receiver":"bob","amount":1}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_INPUT",
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			target:   "/v1/chain/blocks",
			body:     `{"sender":`,
			wantCode: http.StatusBadRequest,
			wantErr:  "ECHO_ERROR",
		},
		{
			name:     "unknown block",
			method:   http.MethodGet,
			target:   "/v1/chain/blocks/abc",
			wantCode: http.StatusNotFound,
			wantErr:  "BLOCK_NOT_FOUND",
		},
		{
			name:     "negative difficulty",
			method:   http.MethodPut,
			target:   "/v1/chain/difficulty",
			body:     `{"difficulty":-1}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_DIFFICULTY",
		},
		{
			name:     "records without party",
			method:   http.MethodGet,
			target:   "/v1/chain/records",
			wantCode: http.StatusBadRequest,
			wantErr:  "PARTY_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEcho(t, 0)

			rec := do(e, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeFault(t, rec).ErrorCode)
		})
	}
}

func TestMiningAbortedIsUnavailable(t *testing.T) {
	e, chain := newTestEcho(t, blockchain.MaxDifficulty)
	chain.SetMaxAttempts(5)

	rec := do(e, http.MethodPost, "/v1/chain/blocks", `{"sender":"alice","receiver":"bob","amount":1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "MINING_ABORTED", decodeFault(t, rec).ErrorCode)
	assert.Equal(t, 1, chain.Len())
}

func TestDifficultyEndpoints(t *testing.T) {
	e, chain := newTestEcho(t, 2)

	rec := do(e, http.MethodPut, "/v1/chain/difficulty", `{"difficulty":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, chain.Difficulty())

	rec = do(e, http.MethodGet, "/v1/chain/difficulty", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"difficulty":3}`, rec.Body.String())
}

func TestGetRecords(t *testing.T) {
	e, _ := newTestEcho(t, 0)

	do(e, http.MethodPost, "/v1/chain/blocks", `{"sender":"alice","receiver":"bob","amount":1}`)
	do(e, http.MethodPost, "/v1/chain/blocks", `{"sender":"carol","receiver":"dave","amount":2}`)

	rec := do(e, http.MethodGet, "/v1/chain/records?party=bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var records []*types.Block
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Sender)
}

func TestGetBlockBehindBrokenLink(t *testing.T) {
	e, chain := newTestEcho(t, 0)

	rec := do(e, http.MethodPost, "/v1/chain/blocks", `{"sender":"alice","receiver":"bob","amount":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	linked := new(types.Block)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), linked))

	detached, err := blockchain.BuildCandidate("carol", "dave", 2, 1, "not-the-tail")
	require.NoError(t, err)
	require.NoError(t, chain.Append(context.Background(), detached))

	rec = do(e, http.MethodGet, "/v1/chain/blocks/"+linked.Hash, "")
	require.Equal(t, http.StatusOK, rec.Code)

	found := new(types.Block)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), found))
	assert.Equal(t, 1, found.Index)
	assert.Equal(t, "alice", found.Sender)
}
