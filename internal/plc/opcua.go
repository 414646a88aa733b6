package plc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"

	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
)

// OPCUAOptions configures the OPC UA driver.
type OPCUAOptions struct {
	Endpoint          string
	Namespace         uint16
	Naming            Naming
	EmergencyVariable string
	Timeout           time.Duration
}

// OPCUAPort talks to the PLC over OPC UA, reading and writing named boolean
// variables (ns=4;s=ledA1 style node ids).
type OPCUAPort struct {
	opts   OPCUAOptions
	logger *slog.Logger

	mu     sync.Mutex
	client *opcua.Client
}

// NewOPCUAPort builds the driver without connecting.
func NewOPCUAPort(opts OPCUAOptions, logger *slog.Logger) *OPCUAPort {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &OPCUAPort{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "plc-opcua"),
	}
}

// Connect establishes the OPC UA session.
func (p *OPCUAPort) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return nil
	}

	client, err := opcua.NewClient(p.opts.Endpoint,
		opcua.SecurityMode(ua.MessageSecurityModeNone),
		opcua.RequestTimeout(p.opts.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create opcua client: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return fmt.Errorf("connect to %s: %w", p.opts.Endpoint, err)
	}

	p.client = client
	p.logger.Info("connected to PLC", logging.String("endpoint", p.opts.Endpoint))
	return nil
}

// Disconnect closes the session. Safe to call when not connected.
func (p *OPCUAPort) Disconnect() {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.mu.Unlock()

	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Close(ctx); err != nil {
		p.logger.Warn("close opcua session", logging.Error(err))
	}
	p.logger.Info("disconnected from PLC")
}

// ReadLED reads the LED variable for a position.
func (p *OPCUAPort) ReadLED(ctx context.Context, position int) (bool, error) {
	return p.readBool(ctx, p.opts.Naming.LED(position))
}

// WriteLED writes the LED variable for a position.
func (p *OPCUAPort) WriteLED(ctx context.Context, position int, on bool) error {
	return p.writeBool(ctx, p.opts.Naming.LED(position), on)
}

// ReadButton reads the button variable for a position.
func (p *OPCUAPort) ReadButton(ctx context.Context, position int) (bool, error) {
	return p.readBool(ctx, p.opts.Naming.Button(position))
}

// ReadEmergency reads the emergency stop variable.
func (p *OPCUAPort) ReadEmergency(ctx context.Context) (bool, error) {
	return p.readBool(ctx, p.opts.EmergencyVariable)
}

func (p *OPCUAPort) session() (*opcua.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil, ErrNotConnected
	}
	return p.client, nil
}

func (p *OPCUAPort) readBool(ctx context.Context, name string) (bool, error) {
	client, err := p.session()
	if err != nil {
		return false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	req := &ua.ReadRequest{
		NodesToRead: []*ua.ReadValueID{{
			NodeID:      ua.NewStringNodeID(p.opts.Namespace, name),
			AttributeID: ua.AttributeIDValue,
		}},
	}
	resp, err := client.Read(callCtx, req)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if len(resp.Results) == 0 {
		return false, fmt.Errorf("read %s: empty response", name)
	}
	result := resp.Results[0]
	if result.Status != ua.StatusOK {
		return false, fmt.Errorf("read %s: status %v", name, result.Status)
	}
	value, ok := result.Value.Value().(bool)
	if !ok {
		return false, fmt.Errorf("read %s: not a boolean: %v", name, result.Value.Value())
	}
	return value, nil
}

func (p *OPCUAPort) writeBool(ctx context.Context, name string, value bool) error {
	client, err := p.session()
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	variant, err := ua.NewVariant(value)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	req := &ua.WriteRequest{
		NodesToWrite: []*ua.WriteValue{{
			NodeID:      ua.NewStringNodeID(p.opts.Namespace, name),
			AttributeID: ua.AttributeIDValue,
			Value: &ua.DataValue{
				EncodingMask: ua.DataValueValue,
				Value:        variant,
			},
		}},
	}
	resp, err := client.Write(callCtx, req)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if len(resp.Results) == 0 {
		return fmt.Errorf("write %s: empty response", name)
	}
	if resp.Results[0] != ua.StatusOK {
		return fmt.Errorf("write %s: status %v", name, resp.Results[0])
	}
	return nil
}
