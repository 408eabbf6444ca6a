package main

import (
	"fmt"

	"github.com/numi-network/numi-wallet/internal/config"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/pkg/zip321"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var (
	fromFlag = cli.StringFlag{
		Name:     "from",
		Usage:    "the address to spend funds from",
		Required: true,
	}
	toFlag = cli.StringSliceFlag{
		Name:  "to",
		Usage: "recipient address, repeat for each payment",
	}
	amountFlag = cli.StringSliceFlag{
		Name:  "amount",
		Usage: "amount in ZEC of the payment at the same position",
	}
	memoFlag = cli.StringSliceFlag{
		Name:  "memo",
		Usage: "memo of the payment at the same position, empty for none",
	}
	uriFlag = cli.StringFlag{
		Name:  "uri",
		Usage: "a zcash: payment request URI, replaces --to and --amount",
	}
)

// parsePayments zips the repeated --to, --amount and --memo values into
// payments. Memos are optional but, when given, one per payment.
func parsePayments(to, amounts, memos []string) ([]domain.Payment, error) {
	if len(to) != len(amounts) {
		return nil, fmt.Errorf(
			"got %d addresses and %d amounts", len(to), len(amounts),
		)
	}
	if len(memos) > 0 && len(memos) != len(to) {
		return nil, fmt.Errorf(
			"got %d memos for %d payments", len(memos), len(to),
		)
	}

	payments := make([]domain.Payment, 0, len(to))
	for i, addr := range to {
		amount, err := decimal.NewFromString(amounts[i])
		if err != nil {
			return nil, fmt.Errorf(
				"%w: payment #%d: %s", domain.ErrInvalidAmount, i, err,
			)
		}
		p := domain.Payment{Address: addr, Amount: amount}
		if len(memos) > 0 && memos[i] != "" {
			p.Memo = []byte(memos[i])
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func parsePaymentRequest(uri string) (domain.PaymentRequest, error) {
	req, err := zip321.Parse(uri)
	if err != nil {
		return domain.PaymentRequest{}, err
	}

	items := make([]domain.PaymentRequestItem, 0, len(req.Payments))
	for _, p := range req.Payments {
		items = append(items, domain.PaymentRequestItem{
			Address: p.Address,
			Amount:  p.Amount,
			Memo:    p.Memo,
			Label:   p.Label,
			Message: p.Message,
		})
	}
	return domain.PaymentRequest{Items: items}, nil
}

// getPayments returns the payments given either as a URI or as repeated
// flags.
func getPayments(ctx *cli.Context) ([]domain.Payment, error) {
	uri := ctx.String(uriFlag.Name)
	if uri == "" {
		return parsePayments(
			ctx.StringSlice(toFlag.Name), ctx.StringSlice(amountFlag.Name),
			ctx.StringSlice(memoFlag.Name),
		)
	}

	if len(ctx.StringSlice(toFlag.Name)) > 0 {
		return nil, fmt.Errorf("--uri and --to are mutually exclusive")
	}
	req, err := parsePaymentRequest(uri)
	if err != nil {
		return nil, err
	}
	return req.ToPayments(config.GetNetwork())
}

func getOptionalFee(ctx *cli.Context) (*decimal.Decimal, error) {
	if !ctx.IsSet("fee") {
		return nil, nil
	}
	fee, err := decimal.NewFromString(ctx.String("fee"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFee, err)
	}
	return &fee, nil
}

func getOptionalMinConf(ctx *cli.Context) *uint32 {
	if !ctx.IsSet("minconf") {
		return nil
	}
	minConf := uint32(ctx.Uint("minconf"))
	return &minConf
}
