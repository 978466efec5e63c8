package main

import (
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"github.com/spf13/cobra"

	"remotekb/internal/config"
	"remotekb/internal/input"
	"remotekb/internal/input/window"
	"remotekb/internal/network"
	"remotekb/internal/storage"
)

var connectFlags struct {
	port      int
	transport string
	input     string
}

var connectCmd = &cobra.Command{
	Use:   "connect <ip>",
	Short: "send this machine's key presses to a host",
	Long:  `connect to a host and forward every key press and release captured by the focused window (or terminal)`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgMgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get().Client
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Port = connectFlags.port
		}
		if flags.Changed("transport") {
			cfg.Transport = connectFlags.transport
		}
		if flags.Changed("input") {
			cfg.Input = connectFlags.input
		}
		transport, err := network.ParseTransport(cfg.Transport)
		if err != nil {
			return err
		}

		host := args[0]
		conn, err := network.Dial(host, cfg.Port, transport)
		if err != nil {
			return err
		}
		peer := conn.RemoteAddr().String()
		log.Printf("Client: Connected to %s (%s)", peer, transport)

		c := &connector{conn: conn, rec: startRecording(cfgMgr, storage.RoleClient, peer, transport)}
		switch cfg.Input {
		case "terminal":
			return c.runTerminal()
		case "window":
			return c.runWindow(cfg, peer)
		default:
			conn.Close()
			return fmt.Errorf("unknown input %q (want window or terminal)", cfg.Input)
		}
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.Flags().IntVarP(&connectFlags.port, "port", "p", network.DefaultPort, "host port")
	connectCmd.Flags().StringVarP(&connectFlags.transport, "transport", "t", string(network.TransportTCP), "transport: tcp or ws")
	connectCmd.Flags().StringVarP(&connectFlags.input, "input", "i", "window", "capture source: window or terminal")
}

type connector struct {
	conn network.Conn
	rec  *recorder
}

// run forwards src until it closes or the connection fails
func (c *connector) run(src input.Capture) error {
	defer c.conn.Close()

	session := network.NewClientSession(c.conn)
	err := session.Run(src)
	c.rec.finish(session.Frames(), session.Bytes(), network.Outcome(err, network.OutcomeClosed), err)
	return err
}

func (c *connector) runTerminal() error {
	term := input.NewTerminal()
	if err := term.Start(); err != nil {
		c.conn.Close()
		return err
	}
	defer term.Stop()

	log.Printf("Client: Typing is forwarded. Press Ctrl+] to quit.\r")
	return c.run(term)
}

// runWindow never returns: app.Main owns the main goroutine and the process
// exits when the session ends.
func (c *connector) runWindow(cfg config.ClientConfig, peer string) error {
	w := window.New(cfg.WindowTitle, "Typing into "+peer+". Close this window to disconnect.")
	if err := w.Start(); err != nil {
		c.conn.Close()
		return err
	}

	go func() {
		err := c.run(w)
		w.Stop()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
