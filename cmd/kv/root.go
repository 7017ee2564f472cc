package kv

import (
	"fmt"
	"github.com/ValentinKolb/txKV/cmd/util"
	"github.com/ValentinKolb/txKV/rpc/client"
	"github.com/spf13/cobra"
	"os"
)

var (
	session *client.SingleOp

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform single key-value operations (each committed on its own)",
		PersistentPreRunE: setupKVClient,
	}
)

func init() {
	// release the session also if the command failed
	cobra.OnFinalize(closeKVClient)

	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(readCmd)
	KeyValueCommands.AddCommand(writeCmd)
	KeyValueCommands.AddCommand(tasCmd)
	KeyValueCommands.AddCommand(nopCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient initializes the single operation session
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	session, err = client.NewSingleOp(util.GetClientConfig(), util.GetTransport())
	return err
}

// closeKVClient releases the connections of the session
func closeKVClient() {
	if session == nil {
		return
	}
	if err := session.CloseConnection(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close connection: %v\n", err)
	}
}
