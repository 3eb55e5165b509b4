package ports

import "github.com/reglet-dev/envoy-sdk-go/domain/entities"

// SharedData is a key-value store shared by all VMs of the same vm_id.
type SharedData interface {
	// Get returns the value and its version. ok is false when the key is absent.
	Get(key string) (value []byte, version entities.OptimisticLockVersion, ok bool, err error)

	// Set stores a value. A non-zero version makes the write conditional on
	// the entry still having that version.
	Set(key string, value []byte, version entities.OptimisticLockVersion) error
}

// SharedQueue is a message queue shared across VMs.
type SharedQueue interface {
	Register(name string) (entities.SharedQueueHandle, error)
	Lookup(vmID, name string) (handle entities.SharedQueueHandle, ok bool, err error)
	Enqueue(handle entities.SharedQueueHandle, data []byte) error
	// Dequeue returns ok=false when the queue is empty.
	Dequeue(handle entities.SharedQueueHandle) (data []byte, ok bool, err error)
}
