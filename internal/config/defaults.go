package config

const (
	defaultLogDir            = "~/.local/share/rackd/logs"
	defaultAPIBind           = "127.0.0.1:7410"
	defaultPLCDriver         = "opcua"
	defaultPLCEndpoint       = "opc.tcp://192.168.250.1:4840"
	defaultPLCNamespace      = 4
	defaultNamingScheme      = "prefixed"
	defaultEmergencyVariable = "kill"
	defaultSerialDevice      = "/dev/ttyUSB0"
	defaultBaudRate          = 9600
	defaultSlaveID           = 1
	defaultEmergencyInput    = 100
	defaultPLCTimeoutSeconds = 5
	defaultRackPositions     = 35
	defaultRackRows          = 5
	defaultRackColumns       = 7
	defaultScanIntervalMS    = 500
	defaultButtonDebounceMS  = 250
	defaultCompletedHistory  = 100
	defaultFailedHistory     = 50
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		PLC: PLC{
			Driver:            defaultPLCDriver,
			Endpoint:          defaultPLCEndpoint,
			Namespace:         defaultPLCNamespace,
			NamingScheme:      defaultNamingScheme,
			EmergencyVariable: defaultEmergencyVariable,
			SerialDevice:      defaultSerialDevice,
			BaudRate:          defaultBaudRate,
			SlaveID:           defaultSlaveID,
			EmergencyInput:    defaultEmergencyInput,
			TimeoutSeconds:    defaultPLCTimeoutSeconds,
		},
		Rack: Rack{
			Positions: defaultRackPositions,
			Rows:      defaultRackRows,
			Columns:   defaultRackColumns,
		},
		Operation: Operation{
			ScanIntervalMS:   defaultScanIntervalMS,
			ButtonDebounceMS: defaultButtonDebounceMS,
			AutoLEDSync:      true,
		},
		Queue: Queue{
			CompletedHistory: defaultCompletedHistory,
			FailedHistory:    defaultFailedHistory,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
