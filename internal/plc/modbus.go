package plc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
)

// ModbusOptions configures the Modbus driver. When Endpoint is set the
// driver speaks Modbus TCP; otherwise it opens SerialDevice as Modbus RTU.
//
// Address layout: LED coils at CoilBase+position-1, button discrete inputs
// at InputBase+position-1, emergency stop at EmergencyInput.
type ModbusOptions struct {
	Endpoint       string
	SerialDevice   string
	BaudRate       int
	SlaveID        byte
	CoilBase       uint16
	InputBase      uint16
	EmergencyInput uint16
	Timeout        time.Duration
}

type modbusHandler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// ModbusPort talks to the PLC over Modbus TCP or RTU.
type ModbusPort struct {
	opts   ModbusOptions
	logger *slog.Logger

	mu      sync.Mutex
	handler modbusHandler
	client  modbus.Client
}

// NewModbusPort builds the driver without connecting.
func NewModbusPort(opts ModbusOptions, logger *slog.Logger) *ModbusPort {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &ModbusPort{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "plc-modbus"),
	}
}

// Connect opens the TCP connection or serial device.
func (p *ModbusPort) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handler != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var handler modbusHandler
	if p.opts.Endpoint != "" {
		h := modbus.NewTCPClientHandler(p.opts.Endpoint)
		h.Timeout = p.opts.Timeout
		h.SlaveId = p.opts.SlaveID
		handler = h
	} else {
		h := modbus.NewRTUClientHandler(p.opts.SerialDevice)
		h.BaudRate = p.opts.BaudRate
		h.DataBits = 8
		h.Parity = "N"
		h.StopBits = 1
		h.SlaveId = p.opts.SlaveID
		h.Timeout = p.opts.Timeout
		handler = h
	}

	if err := handler.Connect(); err != nil {
		return fmt.Errorf("connect modbus: %w", err)
	}

	p.handler = handler
	p.client = modbus.NewClient(handler)
	p.logger.Info("connected to PLC",
		logging.String("endpoint", p.opts.Endpoint),
		logging.String("serial_device", p.opts.SerialDevice))
	return nil
}

// Disconnect closes the connection. Safe to call when not connected.
func (p *ModbusPort) Disconnect() {
	p.mu.Lock()
	handler := p.handler
	p.handler = nil
	p.client = nil
	p.mu.Unlock()

	if handler == nil {
		return
	}
	if err := handler.Close(); err != nil {
		p.logger.Warn("close modbus connection", logging.Error(err))
	}
	p.logger.Info("disconnected from PLC")
}

// ReadLED reads the coil backing a position's LED.
func (p *ModbusPort) ReadLED(ctx context.Context, position int) (bool, error) {
	client, err := p.session(ctx)
	if err != nil {
		return false, err
	}
	results, err := client.ReadCoils(p.opts.CoilBase+uint16(position-1), 1)
	if err != nil {
		return false, fmt.Errorf("read led %d: %w", position, err)
	}
	return firstBit(results), nil
}

// WriteLED writes the coil backing a position's LED.
func (p *ModbusPort) WriteLED(ctx context.Context, position int, on bool) error {
	client, err := p.session(ctx)
	if err != nil {
		return err
	}
	var value uint16
	if on {
		value = 0xFF00
	}
	if _, err := client.WriteSingleCoil(p.opts.CoilBase+uint16(position-1), value); err != nil {
		return fmt.Errorf("write led %d: %w", position, err)
	}
	return nil
}

// ReadButton reads the discrete input backing a position's button.
func (p *ModbusPort) ReadButton(ctx context.Context, position int) (bool, error) {
	client, err := p.session(ctx)
	if err != nil {
		return false, err
	}
	results, err := client.ReadDiscreteInputs(p.opts.InputBase+uint16(position-1), 1)
	if err != nil {
		return false, fmt.Errorf("read button %d: %w", position, err)
	}
	return firstBit(results), nil
}

// ReadEmergency reads the emergency stop discrete input.
func (p *ModbusPort) ReadEmergency(ctx context.Context) (bool, error) {
	client, err := p.session(ctx)
	if err != nil {
		return false, err
	}
	results, err := client.ReadDiscreteInputs(p.opts.EmergencyInput, 1)
	if err != nil {
		return false, fmt.Errorf("read emergency: %w", err)
	}
	return firstBit(results), nil
}

// SerialDevice returns the configured RTU gateway path, empty for TCP.
func (p *ModbusPort) SerialDevice() string {
	if p.opts.Endpoint != "" {
		return ""
	}
	return p.opts.SerialDevice
}

func (p *ModbusPort) session(ctx context.Context) (modbus.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil, ErrNotConnected
	}
	return p.client, nil
}

func firstBit(results []byte) bool {
	return len(results) > 0 && results[0]&0x01 == 0x01
}
