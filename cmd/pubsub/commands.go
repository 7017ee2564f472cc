package pubsub

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/spf13/cobra"
)

var (
	publishCmd = &cobra.Command{
		Use:   "publish [topic] [content]",
		Short: "Publishes content under a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ps.Publish(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("published successfully")
			return nil
		},
	}
	subscribeCmd = &cobra.Command{
		Use:   "subscribe [topic] [url]",
		Short: "Subscribes a URL to a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ps.Subscribe(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("subscribed successfully")
			return nil
		},
	}
	unsubscribeCmd = &cobra.Command{
		Use:   "unsubscribe [topic] [url]",
		Short: "Removes a URL from the subscribers of a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := ps.Unsubscribe(args[0], args[1])
			if errors.Is(err, kverr.ErrNotFound) {
				fmt.Println("subscription not found")
				return nil
			} else if err != nil {
				return err
			}
			fmt.Println("unsubscribed successfully")
			return nil
		},
	}
	subscribersCmd = &cobra.Command{
		Use:   "subscribers [topic]",
		Short: "Lists the subscribers of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subscribers, err := ps.GetSubscribers(args[0])
			if err != nil {
				return err
			}
			if len(subscribers) == 0 {
				fmt.Println("no subscribers")
			}
			for _, s := range subscribers {
				fmt.Println(s)
			}
			return nil
		},
	}
)
