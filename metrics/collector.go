// Package metrics provides per-session counters for the diagnostic
// console. The Collector accumulates during one connection's lifetime;
// it is a leaf package with no internal dependencies.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the session counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Acquisition cycle
	AcquisitionsStarted   int64 `json:"acquisitions_started"`
	AcquisitionsSucceeded int64 `json:"acquisitions_succeeded"`
	AcquisitionsFailed    int64 `json:"acquisitions_failed"`
	DecodeErrors          int64 `json:"decode_errors"`
	SamplesRead           int64 `json:"samples_read"`

	// One-shot commands
	Configures    int64 `json:"configures"`
	PulserToggles int64 `json:"pulser_toggles"`

	// Transport
	TransportErrors int64 `json:"transport_errors"`

	// Dimensions (informational, set at construction)
	Server string `json:"server"`
}

// Collector accumulates counters for one wib_server session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe so callers can pass a nil collector to disable metrics.
type Collector struct {
	mu sync.Mutex

	acquisitionsStarted   int64
	acquisitionsSucceeded int64
	acquisitionsFailed    int64
	decodeErrors          int64
	samplesRead           int64

	configures    int64
	pulserToggles int64

	transportErrors int64

	server string
}

// NewCollector creates a Collector labeled with the server endpoint.
func NewCollector(server string) *Collector {
	return &Collector{server: server}
}

// IncAcquisitionStarted records the start of an acquisition cycle.
func (c *Collector) IncAcquisitionStarted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.acquisitionsStarted++
	c.mu.Unlock()
}

// AddAcquisitionSucceeded records a completed cycle and the number of
// timesteps it delivered.
func (c *Collector) AddAcquisitionSucceeded(samples int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.acquisitionsSucceeded++
	c.samplesRead += samples
	c.mu.Unlock()
}

// IncAcquisitionFailed records a cycle aborted by a device-reported
// failure or an error reply.
func (c *Collector) IncAcquisitionFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.acquisitionsFailed++
	c.mu.Unlock()
}

// IncDecodeError records a capture payload that failed the shape check.
func (c *Collector) IncDecodeError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.decodeErrors++
	c.mu.Unlock()
}

// IncConfigure records a configure command round-trip.
func (c *Collector) IncConfigure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.configures++
	c.mu.Unlock()
}

// IncPulserToggle records a pulser command round-trip.
func (c *Collector) IncPulserToggle() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.pulserToggles++
	c.mu.Unlock()
}

// IncTransportError records a connection-level failure.
func (c *Collector) IncTransportError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.transportErrors++
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all counters.
// The Collector can continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		AcquisitionsStarted:   c.acquisitionsStarted,
		AcquisitionsSucceeded: c.acquisitionsSucceeded,
		AcquisitionsFailed:    c.acquisitionsFailed,
		DecodeErrors:          c.decodeErrors,
		SamplesRead:           c.samplesRead,

		Configures:    c.configures,
		PulserToggles: c.pulserToggles,

		TransportErrors: c.transportErrors,

		Server: c.server,
	}
}
