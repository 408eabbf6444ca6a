package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var infoCmd = cli.Command{
	Name:   "info",
	Usage:  "print the chain state seen by the node and by lightwalletd",
	Action: infoAction,
}

func infoAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	chainInfoSvc, err := appConfig.ChainInfoService()
	if err != nil {
		return err
	}

	info, err := chainInfoSvc.GetChainInfo(context.Background())
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"node": map[string]interface{}{
			"chain":                 info.Node.GetChain(),
			"blocks":                info.Node.GetBlocks(),
			"headers":               info.Node.GetHeaders(),
			"best_block_hash":       info.Node.GetBestBlockHash(),
			"verification_progress": info.Node.GetVerificationProgress(),
		},
		"lightwalletd": map[string]interface{}{
			"version":                   info.Server.GetVersion(),
			"vendor":                    info.Server.GetVendor(),
			"chain_name":                info.Server.GetChainName(),
			"consensus_branch_id":       info.Server.GetConsensusBranchID(),
			"block_height":              info.Server.GetBlockHeight(),
			"sapling_activation_height": info.Server.GetSaplingActivationHeight(),
			"estimated_height":          info.Server.GetEstimatedHeight(),
		},
		"lag": info.Lag(),
	})
	return nil
}
