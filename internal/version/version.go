// Package version holds the SDK version shared by the library and its tools.
package version

import "github.com/reglet-dev/envoy-sdk-go/domain/entities"

const (
	// Version of the SDK.
	Version = "0.1.0-alpha"

	// ABIVersion is the proxy-wasm ABI the SDK targets.
	ABIVersion = entities.ABIVersion020
)
