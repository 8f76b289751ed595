// Command goxlr-cli is the admin control-surface binary: it issues
// GoXLRCommand requests against a running goxlrd over its unix-domain
// control socket (§6, §9's two-CLI-binaries collaborator).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/goxlr-daemon/goxlrd/internal/ipc"
	"github.com/goxlr-daemon/goxlrd/internal/ipcclient"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

func main() {
	socketPath := flag.StringP("socket", "s", "/tmp/goxlr.socket", "unix-domain socket path")
	statusJSON := flag.Bool("status-json", false, "print the full status document as JSON and exit")
	serial := flag.StringP("serial", "d", "", "target device serial (required for device commands)")
	flag.Parse()

	client := ipcclient.NewSocketClient(*socketPath)
	ctx := context.Background()

	if *statusJSON {
		runStatusJSON(ctx, client)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: goxlr-cli [--socket path] [--status-json] [--serial SERIAL] <command> [args...]")
		fmt.Fprintln(os.Stderr, "commands: ping, status, set-volume <channel> <0-255>, set-mute <channel> <Unmuted|Pressed|Held>")
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "ping":
		err = client.Ping(ctx)
		if err == nil {
			fmt.Println("pong")
		}
	case "status":
		err = runStatus(ctx, client)
	case "set-volume":
		err = runSetVolume(ctx, client, *serial, args[1:])
	case "set-mute":
		err = runSetMute(ctx, client, *serial, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runStatusJSON(ctx context.Context, client ipcclient.Client) {
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
}

func runStatus(ctx context.Context, client ipcclient.Client) error {
	status, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}
	for serial := range status.Devices {
		fmt.Println(serial)
	}
	return nil
}

func requireSerial(serial string) error {
	if serial == "" {
		return fmt.Errorf("--serial is required")
	}
	return nil
}

func runSetVolume(ctx context.Context, client ipcclient.Client, serial string, args []string) error {
	if err := requireSerial(serial); err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: set-volume <channel> <0-255>")
	}
	vol, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		return fmt.Errorf("invalid volume %q: %w", args[1], err)
	}

	channel, err := parseChannel(args[0])
	if err != nil {
		return err
	}

	cmd := ipc.GoXLRCommand{
		Kind: ipc.CommandChannels,
		Channels: ipc.Channels{
			Channel: channel,
			Command: ipc.ChannelCommand{Kind: ipc.ChannelSetVolume, SetVolume: uint8(vol)},
		},
	}
	resp, err := client.SendDeviceCommand(ctx, serial, cmd)
	if err != nil {
		return err
	}
	return printDeviceResponse(resp)
}

func runSetMute(ctx context.Context, client ipcclient.Client, serial string, args []string) error {
	if err := requireSerial(serial); err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: set-mute <channel> <Unmuted|Pressed|Held>")
	}

	channel, err := parseChannel(args[0])
	if err != nil {
		return err
	}

	cmd := ipc.GoXLRCommand{
		Kind: ipc.CommandChannels,
		Channels: ipc.Channels{
			Channel: channel,
			Command: ipc.ChannelCommand{Kind: ipc.ChannelSetMute, SetMute: ipc.MuteStateWire(args[1])},
		},
	}
	resp, err := client.SendDeviceCommand(ctx, serial, cmd)
	if err != nil {
		return err
	}
	return printDeviceResponse(resp)
}

// parseChannel resolves a channel name against the same name set the
// wire codec accepts (internal/ipc.parseFaderChannel), so an operator
// typo is caught locally instead of round-tripping to the daemon.
func parseChannel(name string) (shared.FaderChannel, error) {
	for _, c := range shared.FaderChannels {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q", name)
}

func printDeviceResponse(resp ipc.GoXLRCommandResponse) error {
	switch resp.Kind {
	case ipc.DeviceRespError:
		return fmt.Errorf("%s", resp.Error)
	case ipc.DeviceRespMicLevel:
		fmt.Println(resp.MicLevel)
	default:
		fmt.Println("ok")
	}
	return nil
}
