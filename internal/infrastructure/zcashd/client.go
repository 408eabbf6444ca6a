package zcashd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// RPCError is an error object returned by the node in place of a result.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Is makes every node error match domain.ErrRemoteRejected.
func (e *RPCError) Is(target error) bool {
	return target == domain.ErrRemoteRejected
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Err    *RPCError       `json:"error"`
}

type rpcClient struct {
	endpoint string
	user     string
	password string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker
}

func newRPCClient(
	endpoint, user, password string, timeout time.Duration,
) *rpcClient {
	return &rpcClient{
		endpoint: endpoint,
		user:     user,
		password: password,
		http:     &http.Client{Timeout: timeout},
		cb:       circuitbreaker.NewCircuitBreaker("zcashd"),
	}
}

// call sends a JSON-RPC request and returns the raw result. Only transport
// failures count against the circuit breaker, node errors are returned as
// *RPCError.
func (c *rpcClient) call(
	ctx context.Context, method string, params []interface{},
) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	req := rpcRequest{
		JSONRPC: "1.0",
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf(
			"%w: zcashd %s: %s", domain.ErrRemoteUnavailable, method, err,
		)
	}
	resp := res.(*rpcResponse)

	if resp.Err != nil {
		log.Debugf("zcashd: %s returned error %d", method, resp.Err.Code)
		return nil, fmt.Errorf("%s: %w", method, resp.Err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf(
			"%w: zcashd %s: response id mismatch", domain.ErrRemoteUnavailable, method,
		)
	}
	return resp.Result, nil
}

// post performs the http round trip. Non-2xx statuses carrying a JSON-RPC
// error body are not transport failures: the node answers 500 on every
// error response.
func (c *rpcClient) post(ctx context.Context, body []byte) (*rpcResponse, error) {
	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.user != "" || c.password != "" {
		httpReq.SetBasicAuth(c.user, c.password)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	resp := &rpcResponse{}
	if err := json.Unmarshal(data, resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("http status %s", httpResp.Status)
		}
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK && resp.Err == nil {
		return nil, fmt.Errorf("http status %s", httpResp.Status)
	}
	return resp, nil
}

func unmarshalResult(method string, raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf(
			"%w: zcashd %s: malformed result: %s",
			domain.ErrRemoteUnavailable, method, err,
		)
	}
	return nil
}
