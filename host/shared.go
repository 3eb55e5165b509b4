package host

import (
	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// SharedData is the key-value store shared by the VMs of a vm_id.
type SharedData struct{}

var _ ports.SharedData = SharedData{}

// DefaultSharedData returns the host shared data store.
func DefaultSharedData() SharedData {
	return SharedData{}
}

// Get returns the value of key and its version.
func (SharedData) Get(key string) ([]byte, entities.OptimisticLockVersion, bool, error) {
	return abi.GetSharedData(key)
}

// Set stores value under key. A non-zero version makes the write
// conditional; a stale version fails with a cas mismatch HostError.
func (SharedData) Set(key string, value []byte, version entities.OptimisticLockVersion) error {
	return abi.SetSharedData(key, value, version)
}

// SharedQueue is the message queue service shared across VMs.
type SharedQueue struct{}

var _ ports.SharedQueue = SharedQueue{}

// DefaultSharedQueue returns the host shared queue service.
func DefaultSharedQueue() SharedQueue {
	return SharedQueue{}
}

// Register registers a queue owned by this VM.
func (SharedQueue) Register(name string) (entities.SharedQueueHandle, error) {
	return abi.RegisterSharedQueue(name)
}

// Lookup resolves a queue registered by the VM with the given vm_id.
func (SharedQueue) Lookup(vmID, name string) (entities.SharedQueueHandle, bool, error) {
	return abi.ResolveSharedQueue(vmID, name)
}

// Enqueue pushes data to the queue.
func (SharedQueue) Enqueue(handle entities.SharedQueueHandle, data []byte) error {
	return abi.EnqueueSharedQueue(handle, data)
}

// Dequeue pops the oldest message of the queue.
func (SharedQueue) Dequeue(handle entities.SharedQueueHandle) ([]byte, bool, error) {
	return abi.DequeueSharedQueue(handle)
}
