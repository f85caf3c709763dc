// Command critcoin-admin manages the administrator key and produces the signed
// messages that accompany admin-only API requests.
package main

import (
	"fmt"
	"os"
	"time"
)

func main() {
	if err := newRootCmd(os.Stdout, time.Now).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
