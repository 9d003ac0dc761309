package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"guardian/internal/ipc"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: guardian-ctl [--socket path] trigger | ask <text> | say <text> | stop")
	cli.PrintDefaults()
}

func main() {
	socket := cli.StringP("socket", "s", ipc.SocketPath, "Control socket path")
	cli.Usage = usage
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: args[0], Text: strings.Join(args[1:], " ")}
	switch msg.Cmd {
	case ipc.CmdTrigger, ipc.CmdStop:
	case ipc.CmdAsk, ipc.CmdSay:
		if msg.Text == "" {
			usage()
			os.Exit(2)
		}
	default:
		usage()
		os.Exit(2)
	}

	if err := ipc.SendCommand(*socket, msg); err != nil {
		fmt.Println("guardian not running:", err)
		os.Exit(1)
	}
}
