package main

import (
	"context"
	"fmt"

	"github.com/numi-network/numi-wallet/internal/config"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var feeCmd = cli.Command{
	Name:  "fee",
	Usage: "validate a payment batch and estimate its conventional fee",
	Flags: []cli.Flag{
		&fromFlag,
		&toFlag,
		&amountFlag,
		&memoFlag,
		&uriFlag,
	},
	Action: feeAction,
}

func feeAction(ctx *cli.Context) error {
	payments, err := getPayments(ctx)
	if err != nil {
		return err
	}

	// List all the violations, not only the first.
	if violations := domain.CollectViolations(
		payments, config.GetNetwork(),
	); len(violations) > 0 {
		for _, v := range violations {
			fmt.Println(v)
		}
		return fmt.Errorf("%d invalid payments", len(violations))
	}

	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	txSvc, err := appConfig.TransactionService()
	if err != nil {
		return err
	}

	fee, err := txSvc.EstimateFee(
		context.Background(), ctx.String(fromFlag.Name), payments,
	)
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"payments":     len(payments),
		"fee_zatoshis": fee,
		"fee":          mathutil.FormatCoin(fee),
	})
	return nil
}
