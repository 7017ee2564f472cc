package kv

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/txKV/cmd/util"
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/spf13/cobra"
)

var (
	readCmd = &cobra.Command{
		Use:   "read [key]",
		Short: "Reads the value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := session.Read(args[0])
			if errors.Is(err, kverr.ErrNotFound) {
				fmt.Println("key not found")
				return nil
			} else if err != nil {
				return err
			}
			fmt.Println(util.FormatValue(v))
			return nil
		},
	}
	writeCmd = &cobra.Command{
		Use:   "write [key] [value]",
		Short: "Writes the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Write(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("written successfully")
			return nil
		},
	}
	tasCmd = &cobra.Command{
		Use:   "tas [key] [old] [new]",
		Short: "Writes new if the current value of key is old",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := session.TestAndSet(args[0], args[1], args[2])
			var e *kverr.Error
			if errors.As(err, &e) && e.Kind == kverr.KindKeyChanged {
				fmt.Printf("key changed, current value: %s\n", util.FormatValue(e.OldValue))
				return nil
			} else if err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	nopCmd = &cobra.Command{
		Use:   "nop [value]",
		Short: "Sends a value to the endpoint and back without touching the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Nop(args[0]); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
)
