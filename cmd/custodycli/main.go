package main

import (
	"fmt"
	"os"

	"github.com/iov-one/custody/cmd/custodyd/client"
)

func main() {
	c := &cli{connect: client.NewHTTPConnection}
	if err := c.rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
