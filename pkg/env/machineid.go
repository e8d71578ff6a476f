package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const deviceNameLen = 12

// DeviceName derives a stable device name from the machine ID, falling
// back to the host name.
func DeviceName() string {
	id, err := machineid.ProtectedID("rtecom")
	if err == nil && len(id) >= deviceNameLen {
		return id[:deviceNameLen]
	}
	glog.V(1).Infof("machine id unavailable: %v", err)
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "rtecom"
}
