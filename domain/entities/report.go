package entities

// ABIVersion identifies a proxy-wasm ABI revision.
type ABIVersion string

const (
	ABIVersionUnknown ABIVersion = ""
	ABIVersion010     ABIVersion = "0.1.0"
	ABIVersion020     ABIVersion = "0.2.0"
	ABIVersion021     ABIVersion = "0.2.1"
)

// abiMarkers maps the exported version marker functions to ABI versions,
// newest first.
var abiMarkers = []struct {
	export  string
	version ABIVersion
}{
	{"proxy_abi_version_0_2_1", ABIVersion021},
	{"proxy_abi_version_0_2_0", ABIVersion020},
	{"proxy_abi_version_0_1_0", ABIVersion010},
}

// ABIMarker returns the name of the export declaring version v.
func ABIMarker(v ABIVersion) string {
	for _, m := range abiMarkers {
		if m.version == v {
			return m.export
		}
	}
	return ""
}

// FunctionImport is a function a WebAssembly module imports from its host.
type FunctionImport struct {
	Module string `json:"module" yaml:"module"`
	Name   string `json:"name" yaml:"name"`
}

// ModuleReport describes the ABI surface of a compiled extension module.
type ModuleReport struct {
	// Exports lists the names of exported functions, sorted.
	Exports []string `json:"exports" yaml:"exports" validate:"required,dive,required"`

	// Imports lists imported functions in declaration order.
	Imports []FunctionImport `json:"imports" yaml:"imports"`

	// ABIVersion is detected from the exported version marker function.
	ABIVersion ABIVersion `json:"abi_version" yaml:"abi_version" validate:"required,oneof=0.1.0 0.2.0 0.2.1"`

	// ExportsMemory reports whether the module exports its linear memory.
	ExportsMemory bool `json:"exports_memory" yaml:"exports_memory"`
}

// Exported reports whether the module exports a function with the given name.
func (r *ModuleReport) Exported(name string) bool {
	for _, e := range r.Exports {
		if e == name {
			return true
		}
	}
	return false
}

// HostCalls returns the names of functions imported from the "env" module.
func (r *ModuleReport) HostCalls() []string {
	var calls []string
	for _, imp := range r.Imports {
		if imp.Module == "env" {
			calls = append(calls, imp.Name)
		}
	}
	return calls
}

// DetectABIVersion returns the newest ABI version the module declares.
func (r *ModuleReport) DetectABIVersion() ABIVersion {
	for _, m := range abiMarkers {
		if r.Exported(m.export) {
			return m.version
		}
	}
	return ABIVersionUnknown
}

// KnownHostCalls lists the host functions defined by proxy-wasm ABI 0.1.0
// through 0.2.1.
var KnownHostCalls = []string{
	"proxy_log",
	"proxy_get_log_level",
	"proxy_set_tick_period_milliseconds",
	"proxy_get_current_time_nanoseconds",
	"proxy_get_configuration",
	"proxy_get_buffer_bytes",
	"proxy_set_buffer_bytes",
	"proxy_get_buffer_status",
	"proxy_get_header_map_pairs",
	"proxy_set_header_map_pairs",
	"proxy_get_header_map_value",
	"proxy_get_header_map_size",
	"proxy_replace_header_map_value",
	"proxy_remove_header_map_value",
	"proxy_add_header_map_value",
	"proxy_get_property",
	"proxy_set_property",
	"proxy_get_shared_data",
	"proxy_set_shared_data",
	"proxy_register_shared_queue",
	"proxy_resolve_shared_queue",
	"proxy_dequeue_shared_queue",
	"proxy_enqueue_shared_queue",
	"proxy_continue_stream",
	"proxy_close_stream",
	"proxy_continue_request",
	"proxy_continue_response",
	"proxy_send_local_response",
	"proxy_clear_route_cache",
	"proxy_http_call",
	"proxy_grpc_call",
	"proxy_grpc_stream",
	"proxy_grpc_send",
	"proxy_grpc_cancel",
	"proxy_grpc_close",
	"proxy_get_status",
	"proxy_set_effective_context",
	"proxy_done",
	"proxy_call_foreign_function",
	"proxy_define_metric",
	"proxy_increment_metric",
	"proxy_record_metric",
	"proxy_get_metric",
}
