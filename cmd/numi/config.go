package main

import (
	"fmt"
	"sort"

	"github.com/numi-network/numi-wallet/internal/config"
	"github.com/urfave/cli/v2"
)

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "print the resolved configuration",
	Action: configAction,
}

func configAction(ctx *cli.Context) error {
	settings := config.AllSettings()

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("%s: %v\n", key, settings[key])
	}
	return nil
}
