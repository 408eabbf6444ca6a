package main

import (
	"context"
	"fmt"

	"github.com/numi-network/numi-wallet/internal/config"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
	"github.com/urfave/cli/v2"
)

var addressCmd = cli.Command{
	Name:  "address",
	Usage: "derive, request and validate addresses",
	Subcommands: []*cli.Command{
		{
			Name:  "transparent",
			Usage: "derive the transparent address at the given index",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "index",
					Usage: "the non-hardened address index",
				},
			},
			Action: transparentAddressAction,
		},
		{
			Name:  "new",
			Usage: "ask the node for a new shielded address",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "type",
					Usage: "the address type: sapling or unified",
					Value: "sapling",
				},
			},
			Action: newAddressAction,
		},
		{
			Name:   "list",
			Usage:  "list the addresses known to the node wallet",
			Action: listAddressesAction,
		},
		{
			Name:      "validate",
			Usage:     "check an address against the configured network",
			ArgsUsage: "<address>",
			Action:    validateAddressAction,
		},
	},
}

func transparentAddressAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	addr, err := walletSvc.GetTransparentAddress(
		context.Background(), uint32(ctx.Uint("index")),
	)
	if err != nil {
		return err
	}

	fmt.Println(addr)
	return nil
}

func newAddressAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	addr, err := walletSvc.NewShieldedAddress(
		context.Background(), ctx.String("type"),
	)
	if err != nil {
		return err
	}

	fmt.Println(addr)
	return nil
}

func listAddressesAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	addresses, err := walletSvc.ListAddresses(context.Background())
	if err != nil {
		return err
	}

	resp := make([]map[string]string, 0, len(addresses))
	for _, a := range addresses {
		resp = append(resp, map[string]string{
			"address": a.Address,
			"type":    a.Kind,
			"account": a.Account,
			"label":   a.Label,
		})
	}
	printJSON(resp)
	return nil
}

func validateAddressAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, "validate"}
	}

	addr, err := zaddr.Parse(ctx.Args().First(), config.GetNetwork())
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"address":          addr.Encoded,
		"type":             addr.Kind.String(),
		"network":          addr.Network.String(),
		"shielded":         addr.IsShielded(),
		"can_receive_memo": addr.CanReceiveMemo(),
	})
	return nil
}
