// Command goxlr-client is the user-facing control-surface binary: a
// read-mostly companion to goxlr-cli for checking daemon/device
// reachability without an admin's command vocabulary (§6, §9's
// two-CLI-binaries collaborator).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/goxlr-daemon/goxlrd/internal/ipcclient"
)

func main() {
	socketPath := flag.StringP("socket", "s", "/tmp/goxlr.socket", "unix-domain socket path")
	httpURL := flag.String("http", "", "reach the daemon over HTTP instead of the control socket, e.g. http://localhost:14564")
	token := flag.String("token", "", "bearer token for --http mode")
	statusJSON := flag.Bool("status-json", false, "print the full status document as JSON and exit")
	flag.Parse()

	var client ipcclient.Client
	if *httpURL != "" {
		client = ipcclient.NewHTTPClient(*httpURL, *token)
	} else {
		client = ipcclient.NewSocketClient(*socketPath)
	}

	ctx := context.Background()

	if *statusJSON {
		status, err := client.GetStatus(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := client.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "daemon unreachable: %v\n", err)
		os.Exit(1)
	}

	status, err := client.GetStatus(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(status.Devices) == 0 {
		fmt.Println("goxlrd is running, no devices attached")
		return
	}
	fmt.Printf("goxlrd is running, %d device(s) attached:\n", len(status.Devices))
	for serial := range status.Devices {
		fmt.Printf("  %s\n", serial)
	}
}
