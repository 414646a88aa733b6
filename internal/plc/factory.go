package plc

import (
	"fmt"
	"log/slog"

	"github.com/Aryan-Kanada/FSMFINAL/internal/config"
)

// FromConfig builds the Port selected by the [plc] config section.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Port, error) {
	switch cfg.PLC.Driver {
	case "opcua":
		naming, err := NewNaming(Scheme(cfg.PLC.NamingScheme), cfg.Rack.Columns)
		if err != nil {
			return nil, err
		}
		return NewOPCUAPort(OPCUAOptions{
			Endpoint:          cfg.PLC.Endpoint,
			Namespace:         uint16(cfg.PLC.Namespace),
			Naming:            naming,
			EmergencyVariable: cfg.PLC.EmergencyVariable,
			Timeout:           cfg.PLCTimeout(),
		}, logger), nil
	case "modbus":
		return NewModbusPort(ModbusOptions{
			Endpoint:       cfg.PLC.Endpoint,
			SerialDevice:   cfg.PLC.SerialDevice,
			BaudRate:       cfg.PLC.BaudRate,
			SlaveID:        byte(cfg.PLC.SlaveID),
			CoilBase:       uint16(cfg.PLC.CoilBase),
			InputBase:      uint16(cfg.PLC.InputBase),
			EmergencyInput: uint16(cfg.PLC.EmergencyInput),
			Timeout:        cfg.PLCTimeout(),
		}, logger), nil
	case "sim":
		return NewSimPort(), nil
	default:
		return nil, fmt.Errorf("unknown plc driver %q", cfg.PLC.Driver)
	}
}
