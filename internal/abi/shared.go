package abi

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
)

// GetSharedData reads a shared data entry.
func GetSharedData(key string) ([]byte, entities.OptimisticLockVersion, bool, error) {
	value, cas, err := proxywasm.GetSharedData(key)
	if IsNotFound(err) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, Wrap(FnGetSharedData, err)
	}
	return value, entities.OptimisticLockVersion(cas), true, nil
}

// SetSharedData writes a shared data entry.
func SetSharedData(key string, value []byte, version entities.OptimisticLockVersion) error {
	return Wrap(FnSetSharedData, proxywasm.SetSharedData(key, value, uint32(version)))
}

// RegisterSharedQueue registers a queue owned by the current VM.
func RegisterSharedQueue(name string) (entities.SharedQueueHandle, error) {
	id, err := proxywasm.RegisterSharedQueue(name)
	if err != nil {
		return 0, Wrap(FnRegisterQueue, err)
	}
	return entities.SharedQueueHandle(id), nil
}

// ResolveSharedQueue looks up a queue registered by another VM.
func ResolveSharedQueue(vmID, name string) (entities.SharedQueueHandle, bool, error) {
	id, err := proxywasm.ResolveSharedQueue(vmID, name)
	if IsNotFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, Wrap(FnResolveQueue, err)
	}
	return entities.SharedQueueHandle(id), true, nil
}

// EnqueueSharedQueue pushes a message to a queue.
func EnqueueSharedQueue(handle entities.SharedQueueHandle, data []byte) error {
	return Wrap(FnEnqueue, proxywasm.EnqueueSharedQueue(uint32(handle), data))
}

// DequeueSharedQueue pops a message from a queue.
func DequeueSharedQueue(handle entities.SharedQueueHandle) ([]byte, bool, error) {
	data, err := proxywasm.DequeueSharedQueue(uint32(handle))
	if StatusOf(err) == errors.StatusEmpty {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Wrap(FnDequeue, err)
	}
	return data, true, nil
}
