package uframe

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
)

// TOC is the table-of-contents document served by the m2m sensor inventory.
// Field names follow the wire format; they are translated to Instrument,
// Stream and Parameter once, when a Catalog is built.
type TOC struct {
	Instruments          []TOCInstrument          `json:"instruments"`
	ParameterDefinitions []TOCParameter           `json:"parameter_definitions"`
	ParametersByStream   map[string][]ParameterID `json:"parameters_by_stream"`
}

// TOCInstrument is an instrument entry of the TOC. Metadata holds the
// complete entry as received.
type TOCInstrument struct {
	ReferenceDesignator string          `json:"reference_designator"`
	Streams             []TOCStream     `json:"streams"`
	Metadata            json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the entry and keeps a copy of the raw bytes.
func (i *TOCInstrument) UnmarshalJSON(data []byte) error {
	type alias TOCInstrument
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = TOCInstrument(a)
	i.Metadata = append(json.RawMessage(nil), data...)
	return nil
}

// TOCStream is a stream entry of a TOC instrument.
type TOCStream struct {
	Stream    string `json:"stream"`
	Method    string `json:"method"`
	BeginTime string `json:"beginTime"`
	EndTime   string `json:"endTime"`
}

// TOCParameter is a parameter definition.
type TOCParameter struct {
	PdID        ParameterID `json:"pdId"`
	ParticleKey string      `json:"particle_key"`
}

// ParameterID identifies a parameter definition. UFrame instances serve it
// either as a JSON number or as a string; both decode to the same value.
type ParameterID string

// UnmarshalJSON accepts a JSON string or number.
func (p *ParameterID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParameterID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*p = ParameterID(strconv.FormatInt(i, 10))
		return nil
	}
	*p = ParameterID(n.String())
	return nil
}

// ParseTOC decodes a TOC document.
func ParseTOC(data []byte) (*TOC, error) {
	var toc TOC
	if err := json.Unmarshal(data, &toc); err != nil {
		return nil, Errorf(EPARSE, "invalid table of contents: %v", err)
	}
	return &toc, nil
}

// TOCFetcher retrieves the raw TOC document from a UFrame instance.
type TOCFetcher interface {
	FetchTOC(ctx context.Context) ([]byte, error)
}
