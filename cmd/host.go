package main

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"remotekb/internal/input"
	"remotekb/internal/input/inject"
	"remotekb/internal/network"
	"remotekb/internal/osutils"
	"remotekb/internal/storage"
	"remotekb/internal/tray"
)

var hostFlags struct {
	port      int
	bind      string
	transport string
	tray      bool
	dryRun    bool
}

var errQuit = errors.New("quit from tray")

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "accept one client and type its key presses on this machine",
	Long:  `wait for a single client connection and replay every key event it sends as native keyboard input`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgMgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get().Host
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Port = hostFlags.port
		}
		if flags.Changed("bind") {
			cfg.Bind = hostFlags.bind
		}
		if flags.Changed("transport") {
			cfg.Transport = hostFlags.transport
		}
		if flags.Changed("tray") {
			cfg.Tray = hostFlags.tray
		}
		transport, err := network.ParseTransport(cfg.Transport)
		if err != nil {
			return err
		}

		if runtime.GOOS == "windows" {
			if !osutils.IsElevated() {
				log.Println("Note: key presses cannot reach elevated windows unless this runs as Administrator")
			}
			if cfg.FirewallRule {
				if err := osutils.EnsureFirewallRule(osutils.HostRule(cfg.Bind, cfg.Port)); err != nil {
					log.Printf("Firewall warning: %v", err)
				}
			}
		}

		ln, err := network.Listen(cfg.Bind, cfg.Port, transport)
		if err != nil {
			return err
		}
		log.Printf("Host: Listening on port %d (%s)...", cfg.Port, transport)
		if ips, err := network.LocalIPs(); err == nil {
			for _, ip := range ips {
				log.Printf("Host: Reachable at %s", ip)
			}
		}

		var injector input.Injector
		if hostFlags.dryRun {
			injector = &input.LogInjector{}
		} else {
			injector = inject.NewInjector()
		}

		h := &hoster{
			ln:        ln,
			injector:  injector,
			transport: transport,
			record: func(peer string) *recorder {
				return startRecording(cfgMgr, storage.RoleHost, peer, transport)
			},
			status: func(string) {},
		}
		if !cfg.Tray {
			return h.serve()
		}
		return h.serveWithTray(ln.Addr().String())
	},
}

func init() {
	rootCmd.AddCommand(hostCmd)
	hostCmd.Flags().IntVarP(&hostFlags.port, "port", "p", network.DefaultPort, "port to listen on")
	hostCmd.Flags().StringVar(&hostFlags.bind, "bind", "0.0.0.0", "address to listen on")
	hostCmd.Flags().StringVarP(&hostFlags.transport, "transport", "t", string(network.TransportTCP), "transport: tcp or ws")
	hostCmd.Flags().BoolVar(&hostFlags.tray, "tray", false, "show a system tray icon with the connection status")
	hostCmd.Flags().BoolVar(&hostFlags.dryRun, "dry-run", false, "log received keys instead of typing them")
}

// hoster serves the single session of a host listener
type hoster struct {
	ln        network.Listener
	injector  input.Injector
	transport network.Transport
	record    func(peer string) *recorder
	status    func(string)

	mu      sync.Mutex
	session *network.HostSession
	quit    bool
}

func (h *hoster) serve() error {
	conn, err := h.ln.Accept()
	if err != nil {
		if h.quitting() {
			return errQuit
		}
		return fmt.Errorf("accept failed: %w", err)
	}
	peer := conn.RemoteAddr().String()
	log.Printf("Host: Received client %s", peer)
	h.status(tray.Connected(peer))

	session := network.NewHostSession(conn, h.injector)
	h.mu.Lock()
	h.session = session
	quit := h.quit
	h.mu.Unlock()
	if quit {
		session.Close()
	}

	rec := h.record(peer)
	err = session.Run()
	clean := network.OutcomeEOF
	if h.quitting() {
		clean = network.OutcomeClosed
	}
	rec.finish(session.Frames(), session.Bytes(), network.Outcome(err, clean), err)
	h.status(tray.Disconnected)
	return err
}

func (h *hoster) quitting() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.quit
}

// stop closes the listener and any running session
func (h *hoster) stop() {
	h.mu.Lock()
	h.quit = true
	session := h.session
	h.mu.Unlock()

	h.ln.Close()
	if session != nil {
		session.Close()
	}
}

// serveWithTray runs the tray loop on the calling goroutine and the session
// beside it. Either side ending stops the other.
func (h *hoster) serveWithTray(addr string) error {
	t := tray.New("remotekb host", tray.Listening(addr), func() {
		log.Println("Host: Quit requested from tray")
		h.stop()
	})
	h.status = t.SetStatus

	done := make(chan error, 1)
	go func() {
		<-t.Ready()
		err := h.serve()
		done <- err
		t.Stop()
	}()
	t.Run()

	// Quit closes the listener, possibly before the tray was ready
	h.stop()
	err := <-done
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
