package main

import (
	"fmt"
	"os"

	"github.com/numi-network/numi-wallet/internal/config"
	"github.com/numi-network/numi-wallet/pkg/stats"
	"github.com/urfave/cli/v2"
)

var statsCmd = cli.Command{
	Name:   "stats",
	Usage:  "print the metrics of the last sync or send and the memory usage",
	Action: statsAction,
}

func statsAction(ctx *cli.Context) error {
	buf, err := os.ReadFile(config.GetStatsFile())
	switch {
	case os.IsNotExist(err):
		fmt.Println("no stats recorded yet")
	case err != nil:
		return err
	default:
		fmt.Print(string(buf))
	}

	fmt.Println()
	stats.PrintMemoryStatistics(os.Stdout)
	return nil
}
