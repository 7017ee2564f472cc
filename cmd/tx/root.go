package tx

import (
	"fmt"
	"github.com/ValentinKolb/txKV/cmd/util"
	"github.com/ValentinKolb/txKV/lib/reqlist"
	"github.com/ValentinKolb/txKV/lib/result"
	"github.com/ValentinKolb/txKV/rpc/client"
	"github.com/spf13/cobra"
	"io"
)

var (
	// TransactionCmd runs a list of operations as one transaction
	TransactionCmd = &cobra.Command{
		Use:   "tx [op]...",
		Short: "Run operations in one transaction",
		Long: util.WrapString(`Sends all operations in a single request list and prints one line per operation.
Operations are read:KEY, write:KEY=VALUE and commit. Commit must be the last operation;
without it the transaction is left to the store and discarded.`),
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.BindCommandFlags(cmd)
		},
		RunE:              run,
	}
)

func init() {
	util.SetupRPCClientFlags(TransactionCmd)
}

func run(cmd *cobra.Command, args []string) error {
	ops, err := parseOps(args)
	if err != nil {
		return err
	}

	tx, err := client.NewTransaction(util.GetClientConfig(), util.GetTransport())
	if err != nil {
		return err
	}
	defer tx.CloseConnection()

	list := tx.NewReqList()
	if err := buildList(list, ops); err != nil {
		return err
	}

	// a failed commit still returns the entries
	out := cmd.OutOrStdout()
	results, err := tx.ReqList(list)
	for i, entry := range results {
		printEntry(out, tx, ops[i], entry)
	}
	if err != nil {
		return err
	}

	if tx.IsActive() {
		fmt.Fprintln(out, "transaction not committed")
	}
	return nil
}

// printEntry prints the interpreted result entry of an operation
func printEntry(out io.Writer, tx *client.Transaction, o op, entry any) {
	switch o.kind {
	case reqlist.OpRead:
		v, err := tx.ProcessResultRead(entry)
		if err != nil {
			fmt.Fprintf(out, "read  %s: %v\n", o.key, err)
			return
		}
		fmt.Fprintf(out, "read  %s: %s\n", o.key, util.FormatValue(v))
	case reqlist.OpWrite:
		if err := tx.ProcessResultWrite(entry); err != nil {
			fmt.Fprintf(out, "write %s: %v\n", o.key, err)
			return
		}
		fmt.Fprintf(out, "write %s: ok\n", o.key)
	case reqlist.OpCommit:
		if err := result.ProcessCommit(entry); err != nil {
			fmt.Fprintf(out, "commit: %v\n", err)
			return
		}
		fmt.Fprintln(out, "commit: ok")
	}
}
