package entities

// FilterHeadersStatus is returned by HTTP filters from header callbacks.
type FilterHeadersStatus int

const (
	// HeadersContinue passes the headers to the next filter.
	HeadersContinue FilterHeadersStatus = iota
	// HeadersStopIteration pauses the stream until it is resumed.
	HeadersStopIteration
)

func (s FilterHeadersStatus) String() string {
	if s == HeadersContinue {
		return "Continue"
	}
	return "StopIteration"
}

// FilterDataStatus is returned by HTTP filters from body callbacks.
type FilterDataStatus int

const (
	// DataContinue passes the data to the next filter.
	DataContinue FilterDataStatus = iota
	// DataStopIterationAndBuffer stops iteration and buffers the data.
	DataStopIterationAndBuffer
	// DataStopIterationAndWatermark stops iteration and buffers up to the watermark.
	DataStopIterationAndWatermark
	// DataStopIterationNoBuffer stops iteration without buffering.
	DataStopIterationNoBuffer
)

func (s FilterDataStatus) String() string {
	switch s {
	case DataContinue:
		return "Continue"
	case DataStopIterationAndBuffer:
		return "StopIterationAndBuffer"
	case DataStopIterationAndWatermark:
		return "StopIterationAndWatermark"
	default:
		return "StopIterationNoBuffer"
	}
}

// FilterTrailersStatus is returned by HTTP filters from trailer callbacks.
type FilterTrailersStatus int

const (
	// TrailersContinue passes the trailers to the next filter.
	TrailersContinue FilterTrailersStatus = iota
	// TrailersStopIteration pauses the stream until it is resumed.
	TrailersStopIteration
)

func (s FilterTrailersStatus) String() string {
	if s == TrailersContinue {
		return "Continue"
	}
	return "StopIteration"
}

// NetworkFilterStatus is returned by network filters from data callbacks.
type NetworkFilterStatus int

const (
	// NetworkContinue passes the data to the next filter.
	NetworkContinue NetworkFilterStatus = iota
	// NetworkStopIteration pauses the connection until it is resumed.
	NetworkStopIteration
)

func (s NetworkFilterStatus) String() string {
	if s == NetworkContinue {
		return "Continue"
	}
	return "StopIteration"
}

// ConfigStatus is returned by factories and loggers after configuration.
type ConfigStatus int

const (
	// ConfigAccepted signals a valid configuration.
	ConfigAccepted ConfigStatus = iota
	// ConfigRejected signals an invalid configuration.
	ConfigRejected
)

// AsBool converts the status into the value the host expects.
func (s ConfigStatus) AsBool() bool {
	return s == ConfigAccepted
}

func (s ConfigStatus) String() string {
	if s == ConfigAccepted {
		return "Accepted"
	}
	return "Rejected"
}

// DrainStatus is returned by factories and loggers when the host drains them.
type DrainStatus int

const (
	// DrainOngoing signals that the extension still has work in flight.
	DrainOngoing DrainStatus = iota
	// DrainComplete signals that the extension can be destroyed.
	DrainComplete
)

// AsBool converts the status into the value the host expects.
func (s DrainStatus) AsBool() bool {
	return s == DrainComplete
}

func (s DrainStatus) String() string {
	if s == DrainComplete {
		return "Complete"
	}
	return "Ongoing"
}
