// Package config loads process configuration from flags and environment
// variables, flags taking precedence, mirroring the teacher's layered
// defaults/env/flag resolution.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds all process configuration for the firmware core.
type Config struct {
	SerialDevice  string
	SerialBaud    int
	USBCDC        bool // prefer USB-CDC/JTAG transport over UART
	MockHardware  bool // run the full command plane without real radios attached

	EgressTimeout   time.Duration
	IngressLineMax  int
	ScanBatchMax    int
	BleScanBatchMax int

	HopDwell       time.Duration
	HandshakeTTL   time.Duration
	HandshakeCap   int

	HeartbeatEvery time.Duration
	Debug          bool
}

// Load parses flags/env into a Config. Flags override environment
// variables, which override the defaults below.
func Load() *Config {
	cfg := &Config{}

	device := getEnv("COREFW_SERIAL_DEVICE", "/dev/ttyACM0")
	baud := int(getEnvFloat("COREFW_SERIAL_BAUD", 115200))
	usbCDC := getEnvBool("COREFW_USB_CDC", false)
	mock := getEnvBool("COREFW_MOCK", false)
	debug := getEnvBool("COREFW_DEBUG", false)

	flag.StringVar(&device, "serial-device", device, "Serial device path (UART or USB-CDC)")
	flag.IntVar(&baud, "serial-baud", baud, "Serial baud rate")
	flag.BoolVar(&usbCDC, "usb-cdc", usbCDC, "Prefer USB-CDC/JTAG transport over UART")
	flag.BoolVar(&mock, "mock", mock, "Run with in-memory stand-ins instead of attached radio hardware")
	flag.BoolVar(&debug, "debug", debug, "Enable verbose debug logging")
	flag.Parse()

	cfg.SerialDevice = device
	cfg.SerialBaud = baud
	cfg.USBCDC = usbCDC
	cfg.MockHardware = mock
	cfg.Debug = debug

	cfg.EgressTimeout = 100 * time.Millisecond
	cfg.IngressLineMax = 8192
	cfg.ScanBatchMax = 64
	cfg.BleScanBatchMax = 64
	cfg.HopDwell = 250 * time.Millisecond
	cfg.HandshakeTTL = 10 * time.Second
	cfg.HandshakeCap = 16
	cfg.HeartbeatEvery = 5 * time.Second

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
