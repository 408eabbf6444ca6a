package application

import (
	"context"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/numi-network/numi-wallet/pkg/mathutil"
	"github.com/numi-network/numi-wallet/pkg/stats"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DefaultMinConf is the number of confirmations required for the notes spent
// by a submission when the request does not say otherwise.
const DefaultMinConf uint32 = 1

type SendManyRequest struct {
	FromAddress string
	Payments    []domain.Payment
	MinConf     *uint32
	// Fee in coins. Nil lets the remote processor choose.
	Fee *decimal.Decimal
}

type SendToAddressRequest struct {
	FromAddress string
	ToAddress   string
	Amount      decimal.Decimal
	Memo        []byte
	MinConf     *uint32
	Fee         *decimal.Decimal
}

type SendPaymentRequestRequest struct {
	FromAddress string
	Request     domain.PaymentRequest
	MinConf     *uint32
	Fee         *decimal.Decimal
}

type TransactionService interface {
	SendMany(ctx context.Context, req SendManyRequest) (string, error)
	SendToAddress(ctx context.Context, req SendToAddressRequest) (string, error)
	SendPaymentRequest(
		ctx context.Context, req SendPaymentRequestRequest,
	) (string, error)
	EstimateFee(
		ctx context.Context, fromAddress string, payments []domain.Payment,
	) (uint64, error)
	GetOperationStatus(
		ctx context.Context, opID string,
	) (*domain.OperationResult, error)
	WaitForOperation(
		ctx context.Context, opID string, maxWait time.Duration,
	) (string, error)
	ListSubmissions(ctx context.Context) ([]domain.Submission, error)
	// ExportSubmissionsCSV writes one row per payment of every stored
	// submission, oldest first.
	ExportSubmissionsCSV(ctx context.Context, w io.Writer) error
	ListOperationIDs(ctx context.Context) ([]string, error)
}

type transactionService struct {
	processor            ports.TransactionProcessor
	submissionRepository domain.SubmissionRepository
	poller               OperationPoller
	network              zaddr.Network
	minConf              uint32
	recorder             *stats.Recorder
}

func NewTransactionService(
	processor ports.TransactionProcessor,
	submissionRepository domain.SubmissionRepository,
	poller OperationPoller,
	network zaddr.Network,
	minConf uint32,
	recorder *stats.Recorder,
) TransactionService {
	if minConf == 0 {
		minConf = DefaultMinConf
	}
	return &transactionService{
		processor:            processor,
		submissionRepository: submissionRepository,
		poller:               poller,
		network:              network,
		minConf:              minConf,
		recorder:             recorder,
	}
}

// SendMany validates the whole batch of payments and, only if every payment
// is valid, hands it to the remote processor. The returned operation id
// identifies the asynchronous submission.
func (s *transactionService) SendMany(
	ctx context.Context, req SendManyRequest,
) (string, error) {
	from, err := domain.ValidateFromAddress(req.FromAddress, s.network)
	if err != nil {
		return "", err
	}
	if err := domain.ValidatePayments(req.Payments, s.network); err != nil {
		return "", err
	}
	if err := domain.ValidateFee(req.Fee); err != nil {
		return "", err
	}

	minConf := s.minConf
	if req.MinConf != nil {
		minConf = *req.MinConf
	}

	estimate := domain.EstimateFee(req.Payments, from.IsShielded())
	if req.Fee != nil {
		if req.Fee.LessThan(mathutil.ZatoshisToCoin(estimate)) {
			log.Warnf(
				"fee %s is below the conventional fee of %s, the transaction may "+
					"not be relayed", req.Fee.StringFixed(8), mathutil.FormatCoin(estimate),
			)
		}
	} else {
		log.Debugf("estimated fee: %s", mathutil.FormatCoin(estimate))
	}

	opID, err := s.processor.SendMany(
		ctx, req.FromAddress, req.Payments, minConf, req.Fee,
	)
	if err != nil {
		s.record("rejected")
		return "", err
	}
	s.record("submitted")
	log.Infof(
		"submitted %d payment(s) from %s with operation %s",
		len(req.Payments), req.FromAddress, opID,
	)

	submission := domain.NewSubmission(
		opID, req.FromAddress, req.Payments, minConf, req.Fee,
	)
	if err := s.submissionRepository.AddSubmission(ctx, *submission); err != nil {
		log.WithError(err).Warnf("failed to store submission %s", opID)
	}
	return opID, nil
}

func (s *transactionService) SendToAddress(
	ctx context.Context, req SendToAddressRequest,
) (string, error) {
	return s.SendMany(ctx, SendManyRequest{
		FromAddress: req.FromAddress,
		Payments: []domain.Payment{{
			Address: req.ToAddress,
			Amount:  req.Amount,
			Memo:    req.Memo,
		}},
		MinConf: req.MinConf,
		Fee:     req.Fee,
	})
}

func (s *transactionService) SendPaymentRequest(
	ctx context.Context, req SendPaymentRequestRequest,
) (string, error) {
	payments, err := req.Request.ToPayments(s.network)
	if err != nil {
		return "", err
	}
	return s.SendMany(ctx, SendManyRequest{
		FromAddress: req.FromAddress,
		Payments:    payments,
		MinConf:     req.MinConf,
		Fee:         req.Fee,
	})
}

func (s *transactionService) EstimateFee(
	_ context.Context, fromAddress string, payments []domain.Payment,
) (uint64, error) {
	if len(payments) <= 0 {
		return 0, domain.ErrNoPayments
	}
	from, err := domain.ValidateFromAddress(fromAddress, s.network)
	if err != nil {
		return 0, err
	}
	return domain.EstimateFee(payments, from.IsShielded()), nil
}

func (s *transactionService) GetOperationStatus(
	ctx context.Context, opID string,
) (*domain.OperationResult, error) {
	return s.poller.Status(ctx, opID)
}

func (s *transactionService) WaitForOperation(
	ctx context.Context, opID string, maxWait time.Duration,
) (string, error) {
	return s.poller.WaitForTerminal(ctx, opID, maxWait)
}

func (s *transactionService) ListSubmissions(
	ctx context.Context,
) ([]domain.Submission, error) {
	submissions, err := s.submissionRepository.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func (s *transactionService) ExportSubmissionsCSV(
	ctx context.Context, w io.Writer,
) error {
	submissions, err := s.ListSubmissions(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(submissions, func(i, j int) bool {
		if submissions[i].CreatedAt != submissions[j].CreatedAt {
			return submissions[i].CreatedAt < submissions[j].CreatedAt
		}
		return submissions[i].OperationID < submissions[j].OperationID
	})

	out := csv.NewWriter(w)
	if err := out.Write(submissionCSVHeader); err != nil {
		return err
	}
	rows := 0
	for _, sub := range submissions {
		fee := ""
		if sub.Fee != nil {
			fee = sub.Fee.StringFixed(mathutil.CoinPrecision)
		}
		for _, p := range sub.Payments {
			if err := out.Write([]string{
				sub.OperationID,
				sub.Status.String(),
				sub.TxID,
				sub.FromAddress,
				p.Address,
				p.Amount.StringFixed(mathutil.CoinPrecision),
				fee,
				csvMemo(p.Memo),
				sub.FailureReason,
				csvTime(sub.CreatedAt),
				csvTime(sub.UpdatedAt),
			}); err != nil {
				return err
			}
			rows++
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return err
	}
	log.Debugf("exported %d payment(s) of %d submission(s)", rows, len(submissions))
	return nil
}

func (s *transactionService) ListOperationIDs(
	ctx context.Context,
) ([]string, error) {
	return s.processor.ListOperationIDs(ctx)
}

func (s *transactionService) record(status string) {
	if s.recorder != nil {
		s.recorder.RecordSubmission(status)
	}
}

var submissionCSVHeader = []string{
	"operation_id", "status", "txid", "from_address", "to_address", "amount",
	"fee", "memo", "failure_reason", "created_at", "updated_at",
}

// csvMemo returns the memo as text, or hex encoded if it is not valid UTF-8.
func csvMemo(memo []byte) string {
	if utf8.Valid(memo) {
		return string(memo)
	}
	return hex.EncodeToString(memo)
}

func csvTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
