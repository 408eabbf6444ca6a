package main

import (
	"context"
	"fmt"

	"github.com/numi-network/numi-wallet/internal/config"
	"github.com/numi-network/numi-wallet/internal/core/application"
	"github.com/urfave/cli/v2"
)

var sendCmd = cli.Command{
	Name:  "send",
	Usage: "submit a payment batch to the node",
	Flags: []cli.Flag{
		&fromFlag,
		&toFlag,
		&amountFlag,
		&memoFlag,
		&uriFlag,
		&cli.StringFlag{
			Name:  "fee",
			Usage: "explicit fee in ZEC, the node chooses if omitted",
		},
		&cli.UintFlag{
			Name:  "minconf",
			Usage: "confirmations required by the spent notes",
		},
		&cli.BoolFlag{
			Name:  "wait",
			Usage: "wait for the operation to complete and print the txid",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "how long to wait with --wait, defaults to the configured operation timeout",
		},
	},
	Action: sendAction,
}

func sendAction(ctx *cli.Context) error {
	fee, err := getOptionalFee(ctx)
	if err != nil {
		return err
	}
	minConf := getOptionalMinConf(ctx)
	from := ctx.String(fromFlag.Name)

	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()
	defer saveStats(appConfig)

	txSvc, err := appConfig.TransactionService()
	if err != nil {
		return err
	}

	var opID string
	if uri := ctx.String(uriFlag.Name); uri != "" {
		if len(ctx.StringSlice(toFlag.Name)) > 0 {
			return fmt.Errorf("--uri and --to are mutually exclusive")
		}
		req, err := parsePaymentRequest(uri)
		if err != nil {
			return err
		}
		opID, err = txSvc.SendPaymentRequest(
			context.Background(), application.SendPaymentRequestRequest{
				FromAddress: from,
				Request:     req,
				MinConf:     minConf,
				Fee:         fee,
			},
		)
		if err != nil {
			return err
		}
	} else {
		payments, err := getPayments(ctx)
		if err != nil {
			return err
		}
		opID, err = txSvc.SendMany(
			context.Background(), application.SendManyRequest{
				FromAddress: from,
				Payments:    payments,
				MinConf:     minConf,
				Fee:         fee,
			},
		)
		if err != nil {
			return err
		}
	}

	if !ctx.Bool("wait") {
		fmt.Println(opID)
		return nil
	}

	timeout := ctx.Duration("timeout")
	if timeout <= 0 {
		timeout = config.GetDuration(config.OperationTimeoutKey)
	}
	txid, err := txSvc.WaitForOperation(context.Background(), opID, timeout)
	if err != nil {
		return fmt.Errorf("operation %s: %w", opID, err)
	}

	printJSON(map[string]string{
		"operation_id": opID,
		"txid":         txid,
	})
	return nil
}
