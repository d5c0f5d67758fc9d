package link

import (
	"fmt"
	"net"
	"time"
)

// connectTCP dials a serial-over-TCP bridge at the given address (e.g., "192.168.1.30:8001")
func connectTCP(address string) (net.Conn, error) {
	if address == "" {
		return nil, fmt.Errorf("no device address (ip:port) provided for TCP link")
	}

	conn, err := net.DialTimeout("tcp", address, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn, nil
}
