package gpumem

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// StagingRingFromProvider creates a StagingRing on a GPU device shared by a
// host application (e.g. a gogpu.App), instead of a device the caller wired
// up by hand. The provider's concrete value must also expose HalDevice()
// any and HalQueue() any returning wgpu/hal types.
func StagingRingFromProvider(provider gpucontext.DeviceProvider, config Config) (*StagingRing, error) {
	if provider == nil {
		return nil, ErrNilDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpumem: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpumem: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpumem: provider HalQueue is not hal.Queue")
	}
	return NewStagingRing(device, queue, config)
}
