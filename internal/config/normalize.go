package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	expanded, err := expandPath(c.Paths.LogDir)
	if err != nil {
		return err
	}
	c.Paths.LogDir = expanded

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if token, ok := os.LookupEnv("RACKD_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(token)
		}
	}

	c.PLC.Driver = strings.ToLower(strings.TrimSpace(c.PLC.Driver))
	c.PLC.Endpoint = strings.TrimSpace(c.PLC.Endpoint)
	c.PLC.NamingScheme = strings.ToLower(strings.TrimSpace(c.PLC.NamingScheme))
	c.PLC.EmergencyVariable = strings.TrimSpace(c.PLC.EmergencyVariable)
	c.PLC.SerialDevice = strings.TrimSpace(c.PLC.SerialDevice)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	return nil
}
