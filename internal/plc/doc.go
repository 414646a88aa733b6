// Package plc contains the fieldbus drivers the controller uses to reach
// the rack hardware. All drivers implement the same Port interface over
// named boolean points: one LED output and one button input per position
// plus the shared emergency stop input.
//
// Two real transports are provided, OPC UA and Modbus (TCP or RTU), along
// with an in-memory simulator for development and tests.
package plc
