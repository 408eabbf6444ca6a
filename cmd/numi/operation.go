package main

import (
	"context"
	"fmt"
	"os"

	"github.com/numi-network/numi-wallet/internal/config"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var operationCmd = cli.Command{
	Name:  "operation",
	Usage: "inspect the operations submitted to the node",
	Subcommands: []*cli.Command{
		{
			Name:      "status",
			Usage:     "print the current status of an operation",
			ArgsUsage: "<operation id>",
			Action:    operationStatusAction,
		},
		{
			Name:      "wait",
			Usage:     "wait for an operation to complete and print its txid",
			ArgsUsage: "<operation id>",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "timeout",
					Usage: "how long to wait, defaults to the configured operation timeout",
				},
			},
			Action: operationWaitAction,
		},
		{
			Name:  "list",
			Usage: "list the locally recorded submissions",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "remote",
					Usage: "list the operation ids known to the node instead",
				},
			},
			Action: listOperationsAction,
		},
		{
			Name:  "export",
			Usage: "write the locally recorded submissions as CSV",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "the file to write, defaults to stdout",
				},
			},
			Action: exportOperationsAction,
		},
	},
}

func operationStatusAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, "status"}
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

	res, err := txSvc.GetOperationStatus(context.Background(), ctx.Args().First())
	if err != nil {
		return err
	}

	printJSON(operationResultInfo(res))
	return nil
}

func operationWaitAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, "wait"}
	}
	opID := ctx.Args().First()

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

	timeout := ctx.Duration("timeout")
	if timeout <= 0 {
		timeout = config.GetDuration(config.OperationTimeoutKey)
	}
	txid, err := txSvc.WaitForOperation(context.Background(), opID, timeout)
	if err != nil {
		return err
	}

	fmt.Println(txid)
	return nil
}

func listOperationsAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	txSvc, err := appConfig.TransactionService()
	if err != nil {
		return err
	}

	if ctx.Bool("remote") {
		ids, err := txSvc.ListOperationIDs(context.Background())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	submissions, err := txSvc.ListSubmissions(context.Background())
	if err != nil {
		return err
	}

	list := make([]map[string]interface{}, 0, len(submissions))
	for _, s := range submissions {
		list = append(list, submissionInfo(s))
	}
	printJSON(list)
	return nil
}

func exportOperationsAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	txSvc, err := appConfig.TransactionService()
	if err != nil {
		return err
	}

	path := ctx.Path("output")
	if path == "" {
		return txSvc.ExportSubmissionsCSV(context.Background(), os.Stdout)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if err := txSvc.ExportSubmissionsCSV(context.Background(), f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("submissions exported to %s\n", path)
	return nil
}

func operationResultInfo(res *domain.OperationResult) map[string]interface{} {
	info := map[string]interface{}{
		"operation_id":  res.OperationID,
		"status":        res.Status.String(),
		"remote_status": res.RemoteStatus,
	}
	if res.TxID != "" {
		info["txid"] = res.TxID
	}
	if res.Reason != "" {
		info["reason"] = res.Reason
	}
	return info
}

func submissionInfo(s domain.Submission) map[string]interface{} {
	payments := make([]map[string]string, 0, len(s.Payments))
	for _, p := range s.Payments {
		payment := map[string]string{
			"address": p.Address,
			"amount":  p.Amount.String(),
		}
		if p.HasMemo() {
			payment["memo"] = string(p.Memo)
		}
		payments = append(payments, payment)
	}

	info := map[string]interface{}{
		"operation_id": s.OperationID,
		"from":         s.FromAddress,
		"payments":     payments,
		"min_conf":     s.MinConf,
		"status":       s.Status.String(),
		"created_at":   s.CreatedAt,
		"updated_at":   s.UpdatedAt,
	}
	if s.Fee != nil {
		info["fee"] = s.Fee.String()
	}
	if s.TxID != "" {
		info["txid"] = s.TxID
	}
	if s.FailureReason != "" {
		info["reason"] = s.FailureReason
	}
	return info
}
