package uframe

import "time"

// TimeDeltaUnit is a calendar unit used to derive a request start time from a
// stream's end time.
type TimeDeltaUnit string

// TimeDeltaUnit values.
const (
	Years   TimeDeltaUnit = "years"
	Months  TimeDeltaUnit = "months"
	Weeks   TimeDeltaUnit = "weeks"
	Days    TimeDeltaUnit = "days"
	Hours   TimeDeltaUnit = "hours"
	Minutes TimeDeltaUnit = "minutes"
	Seconds TimeDeltaUnit = "seconds"
)

// TimeDeltaUnits lists every supported unit.
var TimeDeltaUnits = []TimeDeltaUnit{Years, Months, Weeks, Days, Hours, Minutes, Seconds}

// ParseTimeDeltaUnit validates a unit name.
func ParseTimeDeltaUnit(s string) (TimeDeltaUnit, error) {
	for _, u := range TimeDeltaUnits {
		if string(u) == s {
			return u, nil
		}
	}
	return "", Errorf(EINVALID, "invalid time delta type %q", s)
}

// Subtract returns t moved n units into the past. Years and months keep the
// day of month, clamped to the length of the target month.
func (u TimeDeltaUnit) Subtract(t time.Time, n int) time.Time {
	switch u {
	case Years:
		return addMonths(t, -12*n)
	case Months:
		return addMonths(t, -n)
	case Weeks:
		return t.AddDate(0, 0, -7*n)
	case Days:
		return t.AddDate(0, 0, -n)
	case Hours:
		return subtractClock(t, n, 24, time.Hour)
	case Minutes:
		return subtractClock(t, n, 24*60, time.Minute)
	case Seconds:
		return subtractClock(t, n, 24*60*60, time.Second)
	}
	return t
}

// subtractClock moves t back n units of d, where perDay units make a day.
// Whole days go through AddDate so large n cannot overflow a Duration.
func subtractClock(t time.Time, n, perDay int, d time.Duration) time.Time {
	days, rest := n/perDay, n%perDay
	return t.AddDate(0, 0, -days).Add(-time.Duration(rest) * d)
}

func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// Request formats.
const (
	FormatNetCDF = "netcdf"
	FormatJSON   = "json"
)

// DefaultUser is sent when no user name is given.
const DefaultUser = "_nouser"

// RequestOptions controls how request URLs are built for each stream.
type RequestOptions struct {
	// Stream restricts URLs to the stream with this exact name.
	Stream string

	// Telemetry keeps streams whose delivery method contains this substring.
	Telemetry string

	// TimeDeltaType and TimeDeltaValue, when both set, request the last
	// TimeDeltaValue units of each stream.
	TimeDeltaType  string
	TimeDeltaValue int

	// BeginTimestamp and EndTimestamp are ISO-8601 overrides of the stream
	// coverage. They are ignored in time delta mode.
	BeginTimestamp string
	EndTimestamp   string

	// TimeCheck clamps the window to the stream coverage and drops empty windows.
	TimeCheck bool

	ExecDPA           bool
	Format            string
	IncludeProvenance bool

	// Limit of -1 requests a non-decimated dataset.
	Limit int

	// IncludeAnnotations is accepted for compatibility with the m2m request
	// options. The sensor inventory URL has no annotations parameter, so it
	// is not serialized.
	IncludeAnnotations bool

	User  string
	Email string
}

// DefaultRequestOptions returns the options used when none are given.
func DefaultRequestOptions() RequestOptions {
	return RequestOptions{
		TimeCheck:         true,
		ExecDPA:           true,
		Format:            FormatNetCDF,
		IncludeProvenance: true,
		Limit:             -1,
		User:              DefaultUser,
	}
}

// TimeDelta reports whether time delta mode is requested.
func (o RequestOptions) TimeDelta() bool {
	return o.TimeDeltaType != "" && o.TimeDeltaValue != 0
}

// Validate returns an error if the options cannot produce any request.
func (o RequestOptions) Validate() error {
	if o.TimeDeltaType != "" {
		if _, err := ParseTimeDeltaUnit(o.TimeDeltaType); err != nil {
			return err
		}
	}
	if o.TimeDeltaValue < 0 {
		return Errorf(EINVALID, "time delta value must be positive, got %d", o.TimeDeltaValue)
	}
	switch o.Format {
	case FormatNetCDF, FormatJSON:
	default:
		return Errorf(EINVALID, "invalid format %q: must be %s or %s", o.Format, FormatNetCDF, FormatJSON)
	}
	if o.Limit < -1 {
		return Errorf(EINVALID, "invalid limit %d", o.Limit)
	}
	return nil
}

// RequestBuilder builds data request URLs for catalog streams.
type RequestBuilder interface {
	BuildRequestURLs(catalog *Catalog, refdes string, opts RequestOptions) ([]string, error)
}
