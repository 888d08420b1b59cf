package uframe

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Parameter is a stream parameter definition.
type Parameter struct {
	ID          ParameterID `json:"pdId"`
	ParticleKey string      `json:"particleKey"`
	Stream      string      `json:"stream"`
}

// Stream is a data product produced by an instrument via one delivery method.
type Stream struct {
	Name                string `json:"stream"`
	Method              string `json:"method"`
	BeginTime           string `json:"beginTime"`
	EndTime             string `json:"endTime"`
	BeginTimeEpochMs    *int64 `json:"beginTimeEpochMs"`
	EndTimeEpochMs      *int64 `json:"endTimeEpochMs"`
	ReferenceDesignator string `json:"referenceDesignator"`
}

// Bounds parses the stream's time coverage.
func (s Stream) Bounds() (begin, end time.Time, err error) {
	if begin, err = ParseTimestamp(s.BeginTime); err != nil {
		return time.Time{}, time.Time{}, Errorf(EPARSE, "%s: invalid beginTime %q", s.Name, s.BeginTime)
	}
	if end, err = ParseTimestamp(s.EndTime); err != nil {
		return time.Time{}, time.Time{}, Errorf(EPARSE, "%s: invalid endTime %q", s.Name, s.EndTime)
	}
	return begin, end, nil
}

// Instrument is a registered instrument and everything it produces.
type Instrument struct {
	ReferenceDesignator string          `json:"referenceDesignator"`
	Streams             []Stream        `json:"streams"`
	Parameters          []Parameter     `json:"parameters"`
	Metadata            json.RawMessage `json:"metadata,omitempty"`
}

// Catalog is an immutable, indexed table of contents. The zero value and
// the nil pointer are valid empty catalogs.
type Catalog struct {
	instruments map[string]*Instrument
	refdes      []string
	streams     []string
	parameters  []string
	subsites    []string
	logger      *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the logger that reports streams skipped by lookups.
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog indexes instruments together with the parameter keys and stream
// names known to the instance. All index lists are sorted and de-duplicated.
// A later instrument with the same reference designator replaces an earlier one.
func NewCatalog(instruments []*Instrument, parameterKeys, streamNames []string, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		instruments: make(map[string]*Instrument, len(instruments)),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, inst := range instruments {
		if inst == nil {
			continue
		}
		c.instruments[inst.ReferenceDesignator] = inst
	}

	subsites := make([]string, 0, len(c.instruments))
	for refdes := range c.instruments {
		c.refdes = append(c.refdes, refdes)
		subsites = append(subsites, Subsite(refdes))
	}
	c.refdes = sortedSet(c.refdes)
	c.subsites = sortedSet(subsites)
	c.parameters = sortedSet(parameterKeys)
	c.streams = sortedSet(streamNames)
	return c
}

func sortedSet(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// Len returns the number of instruments.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.instruments)
}

// Instrument returns the instrument registered under refdes.
func (c *Catalog) Instrument(refdes string) (*Instrument, bool) {
	if c == nil {
		return nil, false
	}
	inst, ok := c.instruments[refdes]
	return inst, ok
}

// Instruments returns all reference designators in ascending order.
func (c *Catalog) Instruments() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.refdes)
}

// Streams returns all stream names in ascending order.
func (c *Catalog) Streams() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.streams)
}

// Parameters returns all parameter particle keys in ascending order.
func (c *Catalog) Parameters() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.parameters)
}

// Subsites returns all subsites in ascending order.
func (c *Catalog) Subsites() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.subsites)
}

// Lookup searches a catalog. All searches are case-sensitive substring
// matches and return an empty result, never an error, on an empty catalog.
type Lookup interface {
	Len() int
	SearchInstruments(fragment string) []string
	SearchParameters(fragment string) []string
	SearchStreams(fragment string) []string
	SearchSubsites(fragment string) []string
	StreamToInstruments(fragment string) []string
	InstrumentToStreams(fragment string) []Stream
}

var _ Lookup = (*Catalog)(nil)

// SearchInstruments returns the reference designators containing fragment.
func (c *Catalog) SearchInstruments(fragment string) []string {
	if c == nil {
		return []string{}
	}
	return containing(c.refdes, fragment)
}

// SearchParameters returns the parameter particle keys containing fragment.
func (c *Catalog) SearchParameters(fragment string) []string {
	if c == nil {
		return []string{}
	}
	return containing(c.parameters, fragment)
}

// SearchStreams returns the stream names containing fragment.
func (c *Catalog) SearchStreams(fragment string) []string {
	if c == nil {
		return []string{}
	}
	return containing(c.streams, fragment)
}

// SearchSubsites returns the subsites containing fragment.
func (c *Catalog) SearchSubsites(fragment string) []string {
	if c == nil {
		return []string{}
	}
	return containing(c.subsites, fragment)
}

func containing(sorted []string, fragment string) []string {
	out := []string{}
	for _, v := range sorted {
		if strings.Contains(v, fragment) {
			out = append(out, v)
		}
	}
	return out
}

// StreamToInstruments returns the reference designators of all instruments
// producing a stream whose name contains fragment.
func (c *Catalog) StreamToInstruments(fragment string) []string {
	out := []string{}
	if c == nil {
		return out
	}
	for _, refdes := range c.refdes {
		for _, s := range c.instruments[refdes].Streams {
			if strings.Contains(s.Name, fragment) {
				out = append(out, refdes)
				break
			}
		}
	}
	return out
}

// InstrumentToStreams returns the streams of every instrument whose reference
// designator contains fragment, in instrument then stream order. Each stream
// carries its owning reference designator and freshly computed epoch bounds.
// Streams whose coverage cannot be parsed are left out.
func (c *Catalog) InstrumentToStreams(fragment string) []Stream {
	out := []Stream{}
	for _, refdes := range c.SearchInstruments(fragment) {
		for _, s := range c.instruments[refdes].Streams {
			begin, end, err := s.Bounds()
			if err != nil {
				c.logger.Warn("skipping stream with invalid time coverage", "refdes", refdes, "stream", s.Name, "err", err)
				continue
			}
			s.ReferenceDesignator = refdes
			beginMs, endMs := begin.UnixMilli(), end.UnixMilli()
			s.BeginTimeEpochMs = &beginMs
			s.EndTimeEpochMs = &endMs
			out = append(out, s)
		}
	}
	return out
}

// Metadata returns the instruments whose reference designator contains
// fragment, keyed by reference designator.
func (c *Catalog) Metadata(fragment string) map[string]*Instrument {
	out := make(map[string]*Instrument)
	for _, refdes := range c.SearchInstruments(fragment) {
		out[refdes] = c.instruments[refdes]
	}
	return out
}

// CatalogService produces a Catalog. A failed load returns an error and no
// catalog, so a caller holding a previous catalog keeps it unchanged.
type CatalogService interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}
