package daemon

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"github.com/Aryan-Kanada/FSMFINAL/internal/config"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/plc"
)

// serialPort is the subset of the Modbus driver the monitor needs.
type serialPort interface {
	plc.Port
	SerialDevice() string
}

// serialMonitor watches udev netlink events for the Modbus RTU serial
// gateway. USB serial adapters come and go; when the configured device is
// unplugged or replugged the stale descriptor is dropped so the supervisor
// reconnects on its next tick.
type serialMonitor struct {
	logger *slog.Logger
	port   serialPort
	device string

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// newSerialMonitor returns nil unless the configuration uses a serial
// gateway, in which case the daemon runs without hotplug handling.
func newSerialMonitor(cfg *config.Config, port plc.Port, logger *slog.Logger) *serialMonitor {
	if cfg.PLC.Driver != "modbus" {
		return nil
	}
	sp, ok := port.(serialPort)
	if !ok {
		return nil
	}
	device := strings.TrimSpace(sp.SerialDevice())
	if device == "" {
		return nil
	}

	return &serialMonitor{
		logger: logging.NewComponentLogger(logger, "serial-monitor"),
		port:   sp,
		device: device,
	}
}

// Start begins listening for udev netlink events.
func (m *serialMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("netlink connect failed, serial hotplug handling disabled",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "ensure the daemon can access netlink sockets"),
			logging.String(logging.FieldImpact, "unplugged gateway needs a daemon restart"))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("serial gateway monitor started",
		logging.String("device", m.device))
	return nil
}

// Stop shuts down the monitor.
func (m *serialMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
}

func (m *serialMonitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(events, errs, m.buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-events:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// buildMatcher matches SUBSYSTEM=tty add/remove events.
func (m *serialMonitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "tty",
		},
	})
	return rules
}

func (m *serialMonitor) handleEvent(uevent netlink.UEvent) {
	devname := extractDeviceName(uevent)
	if devname == "" || devname != m.device {
		return
	}

	// Either direction drops the connection: on remove the descriptor is
	// dead, on add the gateway likely re-enumerated with fresh state. The
	// supervisor reconnects on its next tick.
	m.logger.Info("serial gateway event, forcing reconnect",
		logging.String("device", devname),
		logging.String("action", string(uevent.Action)))
	m.port.Disconnect()
}

func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if !strings.HasPrefix(devname, "/dev/") {
			return "/dev/" + devname
		}
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}
