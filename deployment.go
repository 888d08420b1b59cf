package uframe

import (
	"context"
	"encoding/json"
	"strings"
)

// DeploymentStatus selects deployment events by whether they are ongoing.
type DeploymentStatus string

// DeploymentStatus values.
const (
	DeploymentStatusAll      DeploymentStatus = "all"
	DeploymentStatusActive   DeploymentStatus = "active"
	DeploymentStatusInactive DeploymentStatus = "inactive"
)

// ParseDeploymentStatus parses a status filter, ignoring case. The empty
// string means DeploymentStatusAll.
func ParseDeploymentStatus(s string) (DeploymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return DeploymentStatusAll, nil
	case "active":
		return DeploymentStatusActive, nil
	case "inactive":
		return DeploymentStatusInactive, nil
	}
	return "", Errorf(EINVALID, "invalid deployment status %q", s)
}

// Match reports whether an event with the given active flag passes the filter.
func (s DeploymentStatus) Match(active bool) bool {
	switch DeploymentStatus(strings.ToLower(string(s))) {
	case DeploymentStatusActive:
		return active
	case DeploymentStatusInactive:
		return !active
	}
	return true
}

// RawReferenceDesignator is the composite reference designator of a raw
// deployment event.
type RawReferenceDesignator struct {
	Subsite string `json:"subsite"`
	Node    string `json:"node"`
	Sensor  string `json:"sensor"`
	Full    bool   `json:"full"`
}

// String joins the parts as SUBSITE-NODE-SENSOR.
func (r RawReferenceDesignator) String() string {
	return r.Subsite + "-" + r.Node + "-" + r.Sensor
}

// Qualified reports whether the designator is fully qualified.
func (r RawReferenceDesignator) Qualified() bool {
	return r.Full && r.Subsite != "" && r.Node != "" && r.Sensor != ""
}

// RawDeploymentEvent is a deployment event as served by the events API.
// Raw keeps the event exactly as received so it can be re-emitted verbatim.
type RawDeploymentEvent struct {
	ReferenceDesignator RawReferenceDesignator `json:"referenceDesignator"`
	EventStartTime      *int64                 `json:"eventStartTime"`
	EventStopTime       *int64                 `json:"eventStopTime"`
	DeploymentNumber    int                    `json:"deploymentNumber"`
	EventID             int64                  `json:"eventId"`
	EventName           string                 `json:"eventName"`
	Raw                 json.RawMessage        `json:"-"`
}

// UnmarshalJSON decodes the event and keeps a copy of the raw bytes.
func (e *RawDeploymentEvent) UnmarshalJSON(data []byte) error {
	type alias RawDeploymentEvent
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = RawDeploymentEvent(a)
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the event as received when available.
func (e RawDeploymentEvent) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type alias RawDeploymentEvent
	return json.Marshal(alias(e))
}

// DeploymentInstrument identifies the instrument of a normalized deployment.
type DeploymentInstrument struct {
	ReferenceDesignator string `json:"referenceDesignator"`
	Subsite             string `json:"subsite"`
	Node                string `json:"node"`
	Sensor              string `json:"sensor"`
	Full                bool   `json:"full"`
}

// Deployment is a normalized deployment event.
type Deployment struct {
	Instrument       DeploymentInstrument `json:"instrument"`
	DeploymentNumber int                  `json:"deploymentNumber"`
	EventStartMs     int64                `json:"eventStartMs"`
	EventStopMs      *int64               `json:"eventStopMs"`
	EventStart       string               `json:"eventStartTs"`
	EventStop        string               `json:"eventStopTs,omitempty"`
	Active           bool                 `json:"active"`
	Valid            bool                 `json:"valid"`
}

// DeploymentFilter narrows the events returned by a deployment query.
type DeploymentFilter struct {
	// ReferenceDesignator keeps only events whose composite designator
	// contains this substring. Empty keeps all.
	ReferenceDesignator string

	// Status keeps active, inactive or all events. Empty keeps all.
	Status DeploymentStatus
}

// DeploymentResult holds the events that survived one normalization pass, in
// encounter order. Raw[i] is the source of Events[i].
type DeploymentResult struct {
	Raw    []RawDeploymentEvent `json:"raw"`
	Events []Deployment         `json:"events"`
}

// DeploymentService queries deployment events.
type DeploymentService interface {
	// QueryDeployments fetches the events for a partial or fully-qualified
	// reference designator and returns the valid ones matching filter.
	QueryDeployments(ctx context.Context, refdes string, filter DeploymentFilter) (*DeploymentResult, error)

	// ActiveDeployments queries every catalog instrument whose reference
	// designator contains refdes, all instruments when refdes is empty, and
	// collects their active deployments. A non-empty filter keeps only events
	// whose designator contains it.
	ActiveDeployments(ctx context.Context, catalog *Catalog, refdes, filter string) (*DeploymentResult, error)
}
