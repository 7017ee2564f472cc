package dht

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/txKV/cmd/util"
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/rpc/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

var (
	dht *client.ReplicatedDHT

	// DHTCommands represents the replicated DHT command group
	DHTCommands = &cobra.Command{
		Use:               "dht",
		Short:             "Non-transactional operations on the replicas of a key",
		PersistentPreRunE: setupDHTClient,
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [key]",
		Short: "Deletes a key on all replicas (bypasses transactions)",
		Long: util.WrapString(`Deletes a key on all replicas and prints how many replicas deleted it.
WARNING: This bypasses transactions and can lead to inconsistent data, e.g. deleted items can re-appear.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := dht.DeleteWithTimeout(args[0], viper.GetInt("timeout-ms"))
			if err != nil && !errors.Is(err, kverr.ErrTimeout) {
				return err
			}

			tally, tallyErr := dht.LastDeleteResult()
			if tallyErr != nil {
				return tallyErr
			}
			fmt.Printf("deleted on %d replicas (%s)\n", n, tally)
			return err
		},
	}
)

func init() {
	// release the session also if the command failed
	cobra.OnFinalize(closeDHTClient)

	util.SetupRPCClientFlags(DHTCommands)

	key := "timeout-ms"
	deleteCmd.Flags().Int(key, client.DefaultDeleteTimeoutMillis, util.WrapString("How long the store waits for the replicas (in milliseconds)"))

	DHTCommands.AddCommand(deleteCmd)
}

// setupDHTClient initializes the replicated DHT client
func setupDHTClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	dht, err = client.NewReplicatedDHT(util.GetClientConfig(), util.GetTransport())
	return err
}

// closeDHTClient releases the connections of the replicated DHT client
func closeDHTClient() {
	if dht == nil {
		return
	}
	if err := dht.CloseConnection(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close connection: %v\n", err)
	}
}
