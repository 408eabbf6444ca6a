package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/numi-network/numi-wallet/internal/core/application"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var syncCmd = cli.Command{
	Name:  "sync",
	Usage: "fetch and scan compact blocks from lightwalletd",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "start",
			Usage: "first height to sync, defaults to the last synced one after retrying failed ranges",
		},
		&cli.Uint64Flag{
			Name:  "end",
			Usage: "last height to sync, defaults to the chain tip",
		},
		&cli.Uint64Flag{
			Name:  "batch",
			Usage: "number of blocks per request, defaults to the configured one",
		},
		&cli.BoolFlag{
			Name:  "list-failed",
			Usage: "list the persisted ranges that could not be applied and exit",
		},
	},
	Action: syncAction,
}

func syncAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()
	defer saveStats(appConfig)

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}
	syncSvc, err := appConfig.SyncService()
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	req := application.SyncRequest{
		BatchSize: ctx.Uint64("batch"),
		OnProgress: func(p application.SyncProgress) {
			status := "ok"
			if p.Failed {
				status = "failed"
			}
			log.Infof(
				"synced [%d, %d] of %d (%s)",
				p.BatchStart, p.BatchEnd, p.EndHeight, status,
			)
		},
	}
	if ctx.IsSet("end") {
		end := ctx.Uint64("end")
		req.EndHeight = &end
	}
	if ctx.Bool("list-failed") {
		ranges, err := syncSvc.ListFailedRanges(sigCtx)
		if err != nil {
			return err
		}
		printJSON(ranges)
		return nil
	}

	if ctx.IsSet("start") {
		req.StartHeight = ctx.Uint64("start")
		summary, err := syncSvc.Sync(sigCtx, req)
		return printSyncSummary(summary, err)
	}

	retried, err := syncSvc.RetryFailedRanges(sigCtx, req)
	if retried != nil && retried.Batches > 0 {
		printJSON(retried)
	}
	if err != nil {
		return err
	}

	info, err := walletSvc.GetInfo(sigCtx)
	if err != nil {
		return err
	}
	req.StartHeight = info.BirthdayHeight
	summary, err := syncSvc.Resume(sigCtx, req)
	if err == nil && summary.Batches == 0 {
		fmt.Printf("already synced up to height %d\n", summary.FinalHeight)
	} else if err := printSyncSummary(summary, err); err != nil {
		return err
	}
	if retried != nil && len(retried.FailedRanges) > 0 {
		return fmt.Errorf(
			"%d failed ranges could not be applied again",
			len(retried.FailedRanges),
		)
	}
	return nil
}

func printSyncSummary(summary *application.SyncSummary, err error) error {
	if summary != nil {
		printJSON(summary)
	}
	if err != nil {
		return err
	}
	if len(summary.FailedRanges) > 0 {
		return fmt.Errorf(
			"sync incomplete, %d failed ranges are retried by the next sync",
			len(summary.FailedRanges),
		)
	}
	if summary.StoppedEarly {
		return fmt.Errorf(
			"sync incomplete, resume from height %d", summary.NextHeight,
		)
	}
	return nil
}
