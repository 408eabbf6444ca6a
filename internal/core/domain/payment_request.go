package domain

import (
	"errors"
	"fmt"

	"github.com/numi-network/numi-wallet/pkg/zaddr"
	"github.com/shopspring/decimal"
)

// ErrEmptyPaymentRequest ...
var ErrEmptyPaymentRequest = errors.New("payment request has no payments")

// PaymentRequestItem is one payment of a structured payment request. Amount
// is nil when the request leaves it to the payer.
type PaymentRequestItem struct {
	Address string
	Amount  *decimal.Decimal
	Memo    []byte
	Label   string
	Message string
}

// PaymentRequest is a multi-payment request such as a decoded zcash: URI.
type PaymentRequest struct {
	Items []PaymentRequestItem
}

// ToPayments converts the request items to payments. Conversion failures are
// reported as ValidationError tagged with the item index.
func (r PaymentRequest) ToPayments(net zaddr.Network) ([]Payment, error) {
	if len(r.Items) <= 0 {
		return nil, ErrEmptyPaymentRequest
	}

	payments := make([]Payment, 0, len(r.Items))
	for i, item := range r.Items {
		if _, err := zaddr.Parse(item.Address, net); err != nil {
			return nil, &ValidationError{
				Index:  i,
				Kind:   InvalidAddress,
				Reason: err.Error(),
			}
		}
		if len(item.Memo) > MaxMemoSize {
			return nil, &ValidationError{
				Index:  i,
				Kind:   MemoTooLarge,
				Reason: fmt.Sprintf("%d bytes, max %d", len(item.Memo), MaxMemoSize),
			}
		}
		if item.Amount == nil || !item.Amount.IsPositive() {
			reason := "missing amount"
			if item.Amount != nil {
				reason = fmt.Sprintf("%s must be positive", item.Amount)
			}
			return nil, &ValidationError{
				Index:  i,
				Kind:   InvalidAmount,
				Reason: reason,
			}
		}

		payments = append(payments, Payment{
			Address: item.Address,
			Amount:  *item.Amount,
			Memo:    item.Memo,
		})
	}
	return payments, nil
}
