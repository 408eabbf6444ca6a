package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

var (
	passwordFlag = cli.StringFlag{
		Name:     "password",
		Usage:    "the password used to encrypt the mnemonic",
		EnvVars:  []string{"NUMI_PASSWORD"},
		Required: true,
	}
	birthdayFlag = cli.Uint64Flag{
		Name:  "birthday",
		Usage: "the height of the first block the wallet can have received funds in",
	}
)

var walletCmd = cli.Command{
	Name:  "wallet",
	Usage: "create, restore and inspect the local wallet",
	Subcommands: []*cli.Command{
		{
			Name:   "create",
			Usage:  "generate a new mnemonic and store it encrypted",
			Flags:  []cli.Flag{&passwordFlag, &birthdayFlag},
			Action: createWalletAction,
		},
		{
			Name:  "restore",
			Usage: "restore the wallet from an existing mnemonic",
			Flags: []cli.Flag{
				&passwordFlag,
				&birthdayFlag,
				&cli.StringFlag{
					Name:     "mnemonic",
					Usage:    "space separated mnemonic words",
					Required: true,
				},
			},
			Action: restoreWalletAction,
		},
		{
			Name:   "export",
			Usage:  "decrypt and print the mnemonic",
			Flags:  []cli.Flag{&passwordFlag},
			Action: exportMnemonicAction,
		},
		{
			Name:   "export-keys",
			Usage:  "print the full viewing key of the account for an auditor",
			Action: exportViewingKeysAction,
		},
		{
			Name:   "info",
			Usage:  "print the wallet keys and sync state",
			Action: walletInfoAction,
		},
	},
}

func createWalletAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	mnemonic, err := walletSvc.CreateWallet(
		context.Background(), ctx.String("password"), ctx.Uint64("birthday"),
	)
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(mnemonic, " "))
	fmt.Println()
	fmt.Println("Write down the mnemonic above, it is the only way to recover the wallet")
	return nil
}

func restoreWalletAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	if err := walletSvc.RestoreWallet(
		context.Background(), strings.Fields(ctx.String("mnemonic")),
		ctx.String("password"), ctx.Uint64("birthday"),
	); err != nil {
		return err
	}

	fmt.Println("Wallet restored, run 'numi sync' to scan the chain")
	return nil
}

func exportMnemonicAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	mnemonic, err := walletSvc.ExportMnemonic(
		context.Background(), ctx.String("password"),
	)
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(mnemonic, " "))
	return nil
}

func exportViewingKeysAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	keys, err := walletSvc.ExportViewingKeys(context.Background())
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"network":             keys.Network.String(),
		"account_index":       keys.AccountIndex,
		"viewing_key":         keys.ViewingKey,
		"transparent_address": keys.TransparentAddress,
		"birthday_height":     keys.BirthdayHeight,
	})
	return nil
}

func walletInfoAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	walletSvc, err := appConfig.WalletService()
	if err != nil {
		return err
	}

	info, err := walletSvc.GetInfo(context.Background())
	if err != nil {
		return err
	}

	resp := map[string]interface{}{
		"network":         info.Network.String(),
		"viewing_key":     info.ViewingKey,
		"account_index":   info.AccountIndex,
		"birthday_height": info.BirthdayHeight,
		"created_at":      info.CreatedAt,
	}
	if info.AccountID != "" {
		resp["account_id"] = info.AccountID
	}
	if info.SyncedState != nil {
		resp["synced_height"] = info.SyncedState.Height
		resp["synced_hash"] = info.SyncedState.Hash
	}
	printJSON(resp)
	return nil
}
