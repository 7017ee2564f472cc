package cmd

import (
	"fmt"
	"github.com/ValentinKolb/txKV/cmd/dht"
	"github.com/ValentinKolb/txKV/cmd/kv"
	"github.com/ValentinKolb/txKV/cmd/pubsub"
	"github.com/ValentinKolb/txKV/cmd/stub"
	"github.com/ValentinKolb/txKV/cmd/tx"
	"github.com/ValentinKolb/txKV/cmd/util"
	"github.com/ValentinKolb/txKV/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "txkv",
		Short: "client for a replicated transactional key-value store",
		Long: fmt.Sprintf(`txKV (v%s)

A client for a replicated, transactional key-value store speaking JSON-RPC
over HTTP. Supports transactions, single operations, publish/subscribe and
replicated deletes.`, Version),
		SilenceUsage:       true,
		PersistentPreRunE:  setupRoot,
		PersistentPostRunE: writeMetrics,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of txKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("txKV v%s\n", Version)
		},
	}
)

func init() {
	// run the hooks of the root command and of the command groups
	cobra.EnableTraverseRunHooks = true
	cobra.OnInitialize(util.InitClientConfig)

	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(tx.TransactionCmd)
	RootCmd.AddCommand(pubsub.PubSubCommands)
	RootCmd.AddCommand(dht.DHTCommands)
	RootCmd.AddCommand(stub.StubCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("Level at which logs are written to stderr (debug, info, warn, error)"))
	key = "metrics"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("Print the RPC metrics in Prometheus text format after the command"))
}

// setupRoot binds the global flags and initializes the loggers
func setupRoot(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}

// writeMetrics prints all collected metrics if requested
func writeMetrics(_ *cobra.Command, _ []string) error {
	if !viper.GetBool("metrics") {
		return nil
	}
	fmt.Println()
	metrics.WritePrometheus(os.Stdout, false)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
