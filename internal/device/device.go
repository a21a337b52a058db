// Package device wraps PortAudio input and output streams as the
// microphone source and speaker sink for the pipeline.
package device

import "github.com/gordonklaus/portaudio"

// Init initializes the PortAudio runtime. Pair with Terminate.
func Init() error {
	return portaudio.Initialize()
}

// Terminate releases the PortAudio runtime.
func Terminate() error {
	return portaudio.Terminate()
}

// AudioDevice describes an input device for selection by name.
type AudioDevice struct {
	ID      string
	Name    string
	Default bool
}

// ListInputDevices enumerates devices with input channels
func ListInputDevices() ([]AudioDevice, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	defaultDevice, _ := portaudio.DefaultInputDevice()
	return inputDevices(devices, defaultDevice), nil
}

func inputDevices(devices []*portaudio.DeviceInfo, defaultDevice *portaudio.DeviceInfo) []AudioDevice {
	result := make([]AudioDevice, 0, len(devices))
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, AudioDevice{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}
	return result
}

func findInputDevice(deviceID string) (*portaudio.DeviceInfo, error) {
	if deviceID == "" {
		return portaudio.DefaultInputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Name == deviceID && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, errDeviceNotFound(deviceID)
}

type errDeviceNotFound string

func (e errDeviceNotFound) Error() string {
	return "input device not found: " + string(e)
}
