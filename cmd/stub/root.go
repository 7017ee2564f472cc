package stub

import (
	"github.com/ValentinKolb/txKV/cmd/util"
	"github.com/ValentinKolb/txKV/rpc/common"
	rpctesting "github.com/ValentinKolb/txKV/rpc/testing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// StubCmd serves an in-memory stub endpoint
	StubCmd = &cobra.Command{
		Use:   "stub",
		Short: "Serve an in-memory stub endpoint",
		Long: util.WrapString(`Serves an in-memory endpoint speaking the store's JSON-RPC protocol.
Nothing is persisted and pubsub notifications are not delivered. Useful to try the other commands locally.`),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.BindCommandFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rpctesting.NewStubNode().Listen(viper.GetString("listen"), viper.GetString("path"))
		},
	}
)

func init() {
	key := "listen"
	StubCmd.Flags().String(key, "localhost:8000", util.WrapString("The address on which the stub endpoint will listen"))
	key = "path"
	StubCmd.Flags().String(key, common.DefaultPath, util.WrapString("Path of the JSON-RPC page"))
}
