package main

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Run executes the instruments command.
func (c *InstrumentsCmd) Run(deps *Dependencies) error {
	cat, lookup, err := deps.lookup()
	if err != nil {
		return err
	}

	switch {
	case c.Metadata:
		entries := make(map[string]json.RawMessage)
		for refdes, inst := range cat.Metadata(c.RefDes) {
			entries[refdes] = inst.Metadata
		}
		return writeJSON(deps.Stdout, entries)

	case c.Streams:
		streams := lookup.InstrumentToStreams(c.RefDes)
		if !c.CSV {
			return writeJSON(deps.Stdout, streams)
		}
		rows := make([][]string, 0, len(streams))
		for _, s := range streams {
			rows = append(rows, []string{
				s.ReferenceDesignator, s.Name, s.Method, s.BeginTime, s.EndTime,
				strconv.FormatInt(*s.BeginTimeEpochMs, 10), strconv.FormatInt(*s.EndTimeEpochMs, 10),
			})
		}
		return writeCSV(deps.Stdout,
			[]string{"reference_designator", "stream", "method", "beginTime", "endTime", "beginTimeEpochMs", "endTimeEpochMs"}, rows)
	}

	instruments := lookup.SearchInstruments(c.RefDes)
	if len(instruments) == 0 {
		fmt.Fprintf(deps.Stderr, "No instruments match %q.\n", c.RefDes)
		return nil
	}
	writeLines(deps.Stdout, instruments)
	return nil
}

// Run executes the subsites command.
func (c *SubsitesCmd) Run(deps *Dependencies) error {
	_, lookup, err := deps.lookup()
	if err != nil {
		return err
	}

	subsites := lookup.SearchSubsites(c.Subsite)
	if c.JSON {
		return writeJSON(deps.Stdout, subsites)
	}
	writeLines(deps.Stdout, subsites)
	return nil
}

// Run executes the streams command.
func (c *StreamsCmd) Run(deps *Dependencies) error {
	_, lookup, err := deps.lookup()
	if err != nil {
		return err
	}

	if c.Instruments {
		writeLines(deps.Stdout, lookup.StreamToInstruments(c.Fragment))
		return nil
	}
	writeLines(deps.Stdout, lookup.SearchStreams(c.Fragment))
	return nil
}

// Run executes the parameters command.
func (c *ParametersCmd) Run(deps *Dependencies) error {
	_, lookup, err := deps.lookup()
	if err != nil {
		return err
	}

	writeLines(deps.Stdout, lookup.SearchParameters(c.Fragment))
	return nil
}
