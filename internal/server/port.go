package server

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// Port scan range for auto-assignment. Keeping the range fixed lets agents
// and the TUI find a running board without configuration.
const (
	portRangeStart = 10600
	portRangeEnd   = 10700
)

// portFileName is the runtime discovery file written into the data directory.
const portFileName = "port.json"

// portInfo is the port.json payload.
type portInfo struct {
	Port int `json:"port"`
	PID  int `json:"pid"`
}

// listen binds a TCP listener. A zero port scans the auto-assign range for
// the first free port; an explicit port is bound directly.
func listen(port int) (net.Listener, int, error) {
	if port != 0 {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to listen on port %d: %w", port, err)
		}
		return ln, port, nil
	}
	for p := portRangeStart; p <= portRangeEnd; p++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err == nil {
			return ln, p, nil
		}
	}
	return nil, 0, fmt.Errorf("no free port in range %d-%d", portRangeStart, portRangeEnd)
}

// writePortFile records the bound port and process ID for discovery.
func writePortFile(dataDir string, port int) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.Marshal(portInfo{Port: port, PID: os.Getpid()})
	if err != nil {
		return fmt.Errorf("failed to marshal port info: %w", err)
	}
	path := filepath.Join(dataDir, portFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// removePortFile deletes port.json on clean shutdown. Best effort.
func removePortFile(dataDir string) {
	_ = os.Remove(filepath.Join(dataDir, portFileName))
}
