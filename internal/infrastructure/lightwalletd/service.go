package lightwalletd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_logrus "github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus"
	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/retry"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/numi-network/numi-wallet/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/zcash/lightwalletd/walletrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const (
	// 16 MiB, enough for a batch of full compact blocks.
	maxMsgSize = 16 * 1024 * 1024
	maxRetries = 3
)

var (
	// ErrMissingEndpoint ...
	ErrMissingEndpoint = fmt.Errorf("%w: missing endpoint", domain.ErrInvalidEndpoint)
	// ErrInvalidScheme ...
	ErrInvalidScheme = fmt.Errorf("%w: scheme must be either http or https", domain.ErrInvalidEndpoint)
	// ErrMissingHost ...
	ErrMissingHost = fmt.Errorf("%w: missing host", domain.ErrInvalidEndpoint)
	// ErrMissingPort ...
	ErrMissingPort = fmt.Errorf("%w: missing port", domain.ErrInvalidEndpoint)
)

type service struct {
	conn           *grpc.ClientConn
	client         walletrpc.CompactTxStreamerClient
	cb             *gobreaker.CircuitBreaker
	requestTimeout time.Duration
}

// NewService returns a lightwalletd client for the given http(s)://host:port
// endpoint. The connection is established lazily: an invalid endpoint is the
// only error reported here.
func NewService(
	endpoint string, requestTimeout time.Duration, opts ...grpc.DialOption,
) (ports.ChainDataService, error) {
	target, creds, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	logEntry := log.WithField("service", "lightwalletd")
	levels := grpc_logrus.WithLevels(func(code codes.Code) log.Level {
		if code == codes.OK {
			return log.DebugLevel
		}
		return grpc_logrus.DefaultClientCodeToLevel(code)
	})

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(maxMsgSize)),
		grpc.WithUnaryInterceptor(grpc_middleware.ChainUnaryClient(
			grpc_logrus.UnaryClientInterceptor(logEntry, levels),
			grpc_retry.UnaryClientInterceptor(
				grpc_retry.WithMax(maxRetries),
				grpc_retry.WithBackoff(grpc_retry.BackoffLinear(200*time.Millisecond)),
				grpc_retry.WithCodes(codes.Unavailable),
			),
		)),
		grpc.WithStreamInterceptor(grpc_middleware.ChainStreamClient(
			grpc_logrus.StreamClientInterceptor(logEntry, levels),
		)),
	}
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.Dial(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidEndpoint, err)
	}

	return &service{
		conn:           conn,
		client:         walletrpc.NewCompactTxStreamerClient(conn),
		cb:             circuitbreaker.NewCircuitBreaker("lightwalletd"),
		requestTimeout: requestTimeout,
	}, nil
}

func (s *service) GetLatestBlock(ctx context.Context) (ports.BlockID, error) {
	res, err := s.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.client.GetLatestBlock(ctx, &walletrpc.ChainSpec{})
	})
	if err != nil {
		return nil, err
	}
	return blockID{res.(*walletrpc.BlockID)}, nil
}

func (s *service) GetBlockRange(
	ctx context.Context, start, end uint64,
) ([]ports.CompactBlock, error) {
	if start > end {
		return nil, fmt.Errorf("invalid block range [%d, %d]", start, end)
	}

	res, err := s.execute(ctx, func(ctx context.Context) (interface{}, error) {
		stream, err := s.client.GetBlockRange(ctx, &walletrpc.BlockRange{
			Start: &walletrpc.BlockID{Height: start},
			End:   &walletrpc.BlockID{Height: end},
		})
		if err != nil {
			return nil, err
		}

		size := end - start + 1
		if size > 1000 {
			size = 1000
		}
		blocks := make([]ports.CompactBlock, 0, size)
		for {
			block, err := stream.Recv()
			if err != nil {
				if err == io.EOF {
					break
				}
				return nil, err
			}
			blocks = append(blocks, compactBlock{block})
		}
		return blocks, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]ports.CompactBlock), nil
}

func (s *service) GetLightdInfo(ctx context.Context) (ports.LightdInfo, error) {
	res, err := s.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.client.GetLightdInfo(ctx, &walletrpc.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return lightdInfo{res.(*walletrpc.LightdInfo)}, nil
}

func (s *service) Close() {
	if err := s.conn.Close(); err != nil {
		log.WithError(err).Debug("lightwalletd: error while closing connection")
	}
}

// execute runs fn through the circuit breaker with the request timeout
// applied and maps failures to domain errors.
func (s *service) execute(
	ctx context.Context, fn func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		reqCtx := ctx
		if s.requestTimeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, s.requestTimeout)
			defer cancel()
		}
		return fn(reqCtx)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, remoteError(err)
	}
	return res, nil
}

func remoteError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: lightwalletd: %s", domain.ErrRemoteUnavailable, err)
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: lightwalletd: %s", domain.ErrRemoteUnavailable, err)
	}
	switch st.Code() {
	case codes.InvalidArgument, codes.NotFound, codes.OutOfRange,
		codes.FailedPrecondition, codes.PermissionDenied, codes.Unauthenticated,
		codes.Unimplemented:
		return fmt.Errorf("%w: lightwalletd: %s", domain.ErrRemoteRejected, st.Message())
	default:
		return fmt.Errorf("%w: lightwalletd: %s", domain.ErrRemoteUnavailable, st.Message())
	}
}

func parseEndpoint(endpoint string) (string, credentials.TransportCredentials, error) {
	if endpoint == "" {
		return "", nil, ErrMissingEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrInvalidEndpoint, err)
	}

	var creds credentials.TransportCredentials
	switch u.Scheme {
	case "https":
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	case "http":
		creds = insecure.NewCredentials()
	default:
		return "", nil, ErrInvalidScheme
	}
	if u.Hostname() == "" {
		return "", nil, ErrMissingHost
	}
	if u.Port() == "" {
		return "", nil, ErrMissingPort
	}
	return u.Host, creds, nil
}
