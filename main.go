package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/axeeeh/tempmail/actions/address"
	"github.com/axeeeh/tempmail/actions/burn"
	"github.com/axeeeh/tempmail/actions/inbox"
)

func main() {
	cmd := &cli.Command{
		Name:    "tempmail",
		Usage:   "Disposable email from your terminal",
		Version: "0.1.0",
		Action: func(context.Context, *cli.Command) error {
			fmt.Println("tempmail - Use 'tempmail help' for available commands")
			return nil
		},
		Commands: []*cli.Command{
			address.AddressCommand,
			inbox.InboxCommand,
			burn.BurnCommand,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
