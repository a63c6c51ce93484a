package transcriber

import (
	"os/exec"
	"runtime"

	"github.com/nguyentantai21042004/video-recap/internal/config"
)

var (
	lookPath = exec.LookPath
	goos     = runtime.GOOS
	goarch   = runtime.GOARCH
)

// ResolveDevice maps a configured device preference to cpu or gpu.
// auto picks gpu when an NVIDIA driver is installed or on Apple Silicon (Metal).
func ResolveDevice(preference string) string {
	switch preference {
	case config.DeviceCPU, config.DeviceGPU:
		return preference
	}
	if _, err := lookPath("nvidia-smi"); err == nil {
		return config.DeviceGPU
	}
	if goos == "darwin" && goarch == "arm64" {
		return config.DeviceGPU
	}
	return config.DeviceCPU
}
