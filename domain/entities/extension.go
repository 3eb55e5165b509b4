package entities

// ExtensionKind is the kind of an extension registered in a module.
type ExtensionKind string

const (
	KindHTTPFilter    ExtensionKind = "http_filter"
	KindNetworkFilter ExtensionKind = "network_filter"
	KindAccessLogger  ExtensionKind = "access_logger"
)

// Implementors maps each extension kind to the names registered under it.
type Implementors map[ExtensionKind][]string
