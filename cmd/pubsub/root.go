package pubsub

import (
	"fmt"
	"github.com/ValentinKolb/txKV/cmd/util"
	"github.com/ValentinKolb/txKV/rpc/client"
	"github.com/spf13/cobra"
	"os"
)

var (
	ps *client.PubSub

	// PubSubCommands represents the publish/subscribe command group
	PubSubCommands = &cobra.Command{
		Use:               "pubsub",
		Short:             "Publish content and manage subscriptions",
		PersistentPreRunE: setupPubSubClient,
	}
)

func init() {
	// release the session also if the command failed
	cobra.OnFinalize(closePubSubClient)

	util.SetupRPCClientFlags(PubSubCommands)

	// Add subcommands
	PubSubCommands.AddCommand(publishCmd)
	PubSubCommands.AddCommand(subscribeCmd)
	PubSubCommands.AddCommand(unsubscribeCmd)
	PubSubCommands.AddCommand(subscribersCmd)
}

// setupPubSubClient initializes the pubsub client
func setupPubSubClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	ps, err = client.NewPubSub(util.GetClientConfig(), util.GetTransport())
	return err
}

// closePubSubClient releases the connections of the pubsub client
func closePubSubClient() {
	if ps == nil {
		return
	}
	if err := ps.CloseConnection(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close connection: %v\n", err)
	}
}
