package attendance

import (
	"os"
	"strings"

	"github.com/SC0R9I0N/qr-class-manager/internal/version"
)

// DeviceInfo describes this client for the device_info field, in the same
// user-agent shape a browser would send.
func DeviceInfo() string {
	parts := []string{version.UserAgent()}
	if host, err := os.Hostname(); err == nil && host != "" {
		parts = append(parts, "host="+host)
	}
	return strings.Join(parts, " ")
}
