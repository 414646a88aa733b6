package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownDrivers = map[string]struct{}{
	"opcua":  {},
	"modbus": {},
	"sim":    {},
}

var knownNamingSchemes = map[string]struct{}{
	"prefixed": {},
	"grid":     {},
	"numeric":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePLC(); err != nil {
		return err
	}
	if err := c.validateRack(); err != nil {
		return err
	}
	if err := c.validateOperation(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePLC() error {
	if _, ok := knownDrivers[c.PLC.Driver]; !ok {
		return fmt.Errorf("plc.driver must be one of opcua, modbus, sim (got %q)", c.PLC.Driver)
	}
	if _, ok := knownNamingSchemes[c.PLC.NamingScheme]; !ok {
		return fmt.Errorf("plc.naming_scheme must be one of prefixed, grid, numeric (got %q)", c.PLC.NamingScheme)
	}
	if c.PLC.TimeoutSeconds <= 0 {
		return errors.New("plc.timeout_seconds must be positive")
	}
	switch c.PLC.Driver {
	case "opcua":
		if c.PLC.Endpoint == "" {
			return errors.New("plc.endpoint must be set for the opcua driver")
		}
		if !strings.HasPrefix(c.PLC.Endpoint, "opc.tcp://") {
			return fmt.Errorf("plc.endpoint %q must use the opc.tcp:// scheme", c.PLC.Endpoint)
		}
		if c.PLC.Namespace < 0 {
			return errors.New("plc.namespace must be >= 0")
		}
		if c.PLC.EmergencyVariable == "" {
			return errors.New("plc.emergency_variable must be set for the opcua driver")
		}
	case "modbus":
		if c.PLC.Endpoint == "" && c.PLC.SerialDevice == "" {
			return errors.New("plc.endpoint (TCP) or plc.serial_device (RTU) must be set for the modbus driver")
		}
		if c.PLC.SerialDevice != "" && c.PLC.BaudRate <= 0 {
			return errors.New("plc.baud_rate must be positive for Modbus RTU")
		}
		if c.PLC.SlaveID < 0 || c.PLC.SlaveID > 247 {
			return errors.New("plc.slave_id must be in 0..247")
		}
		if c.PLC.CoilBase < 0 || c.PLC.InputBase < 0 || c.PLC.EmergencyInput < 0 {
			return errors.New("plc.coil_base, plc.input_base, and plc.emergency_input must be >= 0")
		}
	}
	return nil
}

func (c *Config) validateRack() error {
	if c.Rack.Positions <= 0 {
		return errors.New("rack.positions must be positive")
	}
	if c.Rack.Rows <= 0 || c.Rack.Columns <= 0 {
		return errors.New("rack.rows and rack.columns must be positive")
	}
	if c.Rack.Rows > 26 {
		return errors.New("rack.rows must be at most 26 (rows are lettered A..Z)")
	}
	if c.Rack.Rows*c.Rack.Columns < c.Rack.Positions {
		return fmt.Errorf("rack layout %dx%d cannot hold %d positions",
			c.Rack.Rows, c.Rack.Columns, c.Rack.Positions)
	}
	return nil
}

func (c *Config) validateOperation() error {
	if c.Operation.ScanIntervalMS <= 0 {
		return errors.New("operation.scan_interval_ms must be positive")
	}
	if c.Operation.ButtonDebounceMS <= 0 {
		return errors.New("operation.button_debounce_ms must be positive")
	}
	return nil
}

func (c *Config) validateQueue() error {
	if c.Queue.CompletedHistory <= 0 {
		return errors.New("queue.completed_history must be positive")
	}
	if c.Queue.FailedHistory <= 0 {
		return errors.New("queue.failed_history must be positive")
	}
	return nil
}
