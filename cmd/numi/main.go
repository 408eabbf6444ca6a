package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/numi-network/numi-wallet/internal/config"
	"github.com/numi-network/numi-wallet/internal/core/application"
	"github.com/numi-network/numi-wallet/pkg/stats"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var version = "dev"

var (
	networkFlag = cli.StringFlag{
		Name:    "network",
		Aliases: []string{"n"},
		Usage:   "the network to use: mainnet, testnet or regtest",
	}
	datadirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "the directory where the wallet state is stored",
	}
	lightwalletdFlag = cli.StringFlag{
		Name:  "lightwalletd",
		Usage: "lightwalletd address scheme://host:port",
	}
	rpcAddrFlag = cli.StringFlag{
		Name:  "rpcserver",
		Usage: "zcashd JSON-RPC address scheme://host:port",
	}
	rpcUserFlag = cli.StringFlag{
		Name:  "rpcuser",
		Usage: "zcashd JSON-RPC user",
	}
	rpcPasswordFlag = cli.StringFlag{
		Name:  "rpcpassword",
		Usage: "zcashd JSON-RPC password",
	}
	logLevelFlag = cli.IntFlag{
		Name:  "loglevel",
		Usage: "log level from 0 (panic) to 6 (trace)",
	}

	flagToConfigKey = map[string]string{
		networkFlag.Name:      config.NetworkKey,
		datadirFlag.Name:      config.DatadirKey,
		lightwalletdFlag.Name: config.LightwalletdAddrKey,
		rpcAddrFlag.Name:      config.RPCAddrKey,
		rpcUserFlag.Name:      config.RPCUserKey,
		rpcPasswordFlag.Name:  config.RPCPasswordKey,
		logLevelFlag.Name:     config.LogLevelKey,
	}
)

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "numi"
	app.Usage = "Command line light wallet for the Zcash network"
	app.Flags = []cli.Flag{
		&networkFlag,
		&datadirFlag,
		&lightwalletdFlag,
		&rpcAddrFlag,
		&rpcUserFlag,
		&rpcPasswordFlag,
		&logLevelFlag,
	}
	app.Before = initConfig
	app.Commands = append(
		app.Commands,
		&configCmd,
		&walletCmd,
		&addressCmd,
		&balanceCmd,
		&feeCmd,
		&sendCmd,
		&syncCmd,
		&infoCmd,
		&operationCmd,
		&statsCmd,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func initConfig(ctx *cli.Context) error {
	overrides := make(map[string]interface{})
	for flag, key := range flagToConfigKey {
		if ctx.IsSet(flag) {
			overrides[key] = ctx.Value(flag)
		}
	}
	if err := config.InitConfig(overrides); err != nil {
		return err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	return nil
}

// getAppConfig returns the wired application config, the caller must call
// the returned cleanup when done.
func getAppConfig() (*application.Config, func(), error) {
	appConfig := config.AppConfig()
	if err := appConfig.Validate(); err != nil {
		return nil, nil, err
	}
	return appConfig, appConfig.Close, nil
}

// saveStats overwrites the stats file with the metrics recorded by the
// current command.
func saveStats(appConfig *application.Config) {
	if err := stats.DumpToFile(
		config.GetStatsFile(), appConfig.Recorder().Gatherer(),
	); err != nil {
		log.WithError(err).Warn("failed to write stats")
	}
}

func printJSON(resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to encode response: ", err)
		return
	}
	fmt.Println(string(buf))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[numi] %v\n", err)
	}
	os.Exit(1)
}
