package m2m

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/uframe"
)

var _ uframe.RequestBuilder = (*RequestBuilder)(nil)

// RequestBuilder builds sensor inventory data request URLs.
type RequestBuilder struct {
	m2mBaseURL string
	logger     *slog.Logger
}

// NewRequestBuilder creates a RequestBuilder for the instance addressed by client.
func NewRequestBuilder(client *Client, logger *slog.Logger) *RequestBuilder {
	return &RequestBuilder{m2mBaseURL: client.M2MBaseURL(), logger: orDiscard(logger)}
}

// window is the resolved request interval shared by every stream.
type window struct {
	delta    uframe.TimeDeltaUnit
	begin    time.Time
	end      time.Time
	hasBegin bool
	hasEnd   bool
}

func (b *RequestBuilder) resolveWindow(opts uframe.RequestOptions) (window, error) {
	var w window
	if err := opts.Validate(); err != nil {
		return w, err
	}
	if opts.TimeDelta() {
		w.delta, _ = uframe.ParseTimeDeltaUnit(opts.TimeDeltaType)
		return w, nil
	}
	if opts.BeginTimestamp != "" {
		t, err := uframe.ParseTimestamp(opts.BeginTimestamp)
		if err != nil {
			return w, uframe.Errorf(uframe.EINVALID, "invalid begin timestamp %q", opts.BeginTimestamp)
		}
		w.begin, w.hasBegin = t, true
	}
	if opts.EndTimestamp != "" {
		t, err := uframe.ParseTimestamp(opts.EndTimestamp)
		if err != nil {
			return w, uframe.Errorf(uframe.EINVALID, "invalid end timestamp %q", opts.EndTimestamp)
		}
		w.end, w.hasEnd = t, true
	}
	return w, nil
}

// BuildRequestURLs returns one request URL per matching instrument stream,
// in instrument then stream order. Invalid options fail the whole call before
// any stream is considered; problems with a single instrument or stream only
// skip that instrument or stream.
func (b *RequestBuilder) BuildRequestURLs(catalog *uframe.Catalog, refdes string, opts uframe.RequestOptions) ([]string, error) {
	w, err := b.resolveWindow(opts)
	if err != nil {
		b.logger.Error("invalid request options", "refdes", refdes, "err", err)
		return nil, err
	}

	urls := []string{}
	instruments := catalog.SearchInstruments(refdes)
	if len(instruments) == 0 {
		b.logger.Warn("no instruments found", "refdes", refdes)
		return urls, nil
	}

	for _, id := range instruments {
		inst, _ := catalog.Instrument(id)
		streams := filterStreams(inst.Streams, opts.Stream, opts.Telemetry)
		if len(streams) == 0 {
			b.logger.Warn("no matching streams",
				"refdes", id, "stream", opts.Stream, "telemetry", opts.Telemetry)
			continue
		}

		parts, ok := uframe.SplitReferenceDesignator(id)
		if !ok {
			b.logger.Warn("reference designator does not have four parts", "refdes", id)
		}

		for _, s := range streams {
			begin, end, ok := b.streamWindow(id, s, w, opts)
			if !ok {
				continue
			}
			urls = append(urls, b.requestURL(parts, s, begin, end, opts))
		}
	}

	return urls, nil
}

// streamWindow resolves the request interval for a single stream.
func (b *RequestBuilder) streamWindow(refdes string, s uframe.Stream, w window, opts uframe.RequestOptions) (begin, end time.Time, ok bool) {
	streamBegin, streamEnd, err := s.Bounds()
	if err != nil {
		b.logger.Warn("invalid stream time coverage", "refdes", refdes, "stream", s.Name, "err", err)
		return begin, end, false
	}

	if w.delta != "" {
		end = streamEnd
		begin = w.delta.Subtract(end, opts.TimeDeltaValue)
	} else {
		begin, end = streamBegin, streamEnd
		if w.hasBegin {
			begin = w.begin
		}
		if w.hasEnd {
			end = w.end
		}
	}
	begin = begin.Truncate(time.Microsecond)
	end = end.Truncate(time.Microsecond)

	if !opts.TimeCheck {
		return begin, end, true
	}
	if end.After(streamEnd) {
		b.logger.Warn("end time exceeds stream endTime, using stream endTime",
			"refdes", refdes, "stream", s.Name,
			"end", uframe.FormatRequestTime(end), "streamEnd", s.EndTime)
		end = streamEnd
	}
	if begin.Before(streamBegin) {
		b.logger.Warn("begin time precedes stream beginTime, using stream beginTime",
			"refdes", refdes, "stream", s.Name,
			"begin", uframe.FormatRequestTime(begin), "streamBegin", s.BeginTime)
		begin = streamBegin
	}
	if !begin.Before(end) {
		b.logger.Warn("invalid time range",
			"refdes", refdes, "stream", s.Name,
			"begin", uframe.FormatRequestTime(begin), "end", uframe.FormatRequestTime(end))
		return begin, end, false
	}
	return begin, end, true
}

func filterStreams(streams []uframe.Stream, name, telemetry string) []uframe.Stream {
	out := make([]uframe.Stream, 0, len(streams))
	for _, s := range streams {
		if name != "" && s.Name != name {
			continue
		}
		if telemetry != "" && !strings.Contains(s.Method, telemetry) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (b *RequestBuilder) requestURL(parts uframe.ReferenceDesignatorParts, s uframe.Stream, begin, end time.Time, opts uframe.RequestOptions) string {
	user := opts.User
	if user == "" {
		user = uframe.DefaultUser
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s/%d/sensor/inv/%s/%s/%s-%s/%s/%s",
		b.m2mBaseURL, SensorInventoryPort,
		parts.Subsite, parts.Node, parts.SensorPrefix, parts.SensorSuffix,
		s.Method, s.Name)
	fmt.Fprintf(&sb, "?beginDT=%s&endDT=%s&format=application/%s&limit=%d&execDPA=%t&include_provenance=%t&selogging=false&user=%s",
		uframe.FormatRequestTime(begin), uframe.FormatRequestTime(end),
		opts.Format, opts.Limit, opts.ExecDPA, opts.IncludeProvenance, user)
	if opts.Email != "" {
		sb.WriteString("&email=")
		sb.WriteString(opts.Email)
	}
	return sb.String()
}
