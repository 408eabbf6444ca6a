package main

import (
	"context"

	"github.com/numi-network/numi-wallet/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var balanceCmd = cli.Command{
	Name:  "balance",
	Usage: "print the balance of the wallet",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "remote",
			Usage: "ask the node instead of summing the locally scanned notes",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "ask the node for the balance of a single address",
		},
		&cli.UintFlag{
			Name:  "minconf",
			Usage: "confirmations required by the node balance",
			Value: 1,
		},
	},
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	if addr := ctx.String("address"); addr != "" {
		balance, err := walletSvc.GetAddressBalance(
			context.Background(), addr, uint32(ctx.Uint("minconf")),
		)
		if err != nil {
			return err
		}
		printJSON(map[string]string{
			"address": addr,
			"balance": balance.StringFixed(mathutil.CoinPrecision),
		})
		return nil
	}

	if ctx.Bool("remote") {
		balance, err := walletSvc.GetRemoteBalance(
			context.Background(), uint32(ctx.Uint("minconf")),
		)
		if err != nil {
			return err
		}
		printJSON(map[string]string{
			"transparent": balance.GetTransparent().String(),
			"private":     balance.GetPrivate().String(),
			"total":       balance.GetTotal().String(),
		})
		return nil
	}

	balance, err := walletSvc.GetBalance(context.Background())
	if err != nil {
		return err
	}
	printJSON(map[string]string{
		"transparent": mathutil.FormatCoin(balance.Transparent),
		"sapling":     mathutil.FormatCoin(balance.Sapling),
		"orchard":     mathutil.FormatCoin(balance.Orchard),
		"total":       mathutil.FormatCoin(balance.Total),
	})
	return nil
}
