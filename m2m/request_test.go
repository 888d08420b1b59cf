package m2m_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/uframe"
	"github.com/fwojciec/uframe/m2m"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ctdbpPath = baseURL + "/api/m2m/12576/sensor/inv/CE01ISSM/MFD37/03-CTDBPC000"

func TestRequestBuilder_BuildRequestURLs(t *testing.T) {
	t.Parallel()

	t.Run("clamps the window to the stream coverage", func(t *testing.T) {
		t.Parallel()

		opts := uframe.DefaultRequestOptions()
		opts.Stream = "ctdbp_cdef_dcl_instrument"
		opts.BeginTimestamp = "2018-01-01"
		opts.EndTimestamp = "2020-01-01"

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "CE01ISSM-MFD37", opts)

		require.NoError(t, err)
		assert.Equal(t, []string{
			ctdbpPath + "/telemetered/ctdbp_cdef_dcl_instrument" +
				"?beginDT=2019-01-01T00:00:00.000000Z&endDT=2019-06-01T00:00:00.000000Z" +
				"&format=application/netcdf&limit=-1&execDPA=true&include_provenance=true&selogging=false&user=_nouser",
		}, urls)
	})

	t.Run("keeps the requested window without time check", func(t *testing.T) {
		t.Parallel()

		opts := uframe.DefaultRequestOptions()
		opts.Stream = "ctdbp_cdef_dcl_instrument"
		opts.BeginTimestamp = "2018-01-01T00:00:00Z"
		opts.EndTimestamp = "2020-01-01T12:30:00.5Z"
		opts.TimeCheck = false

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "CE01ISSM-MFD37", opts)

		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Contains(t, urls[0], "beginDT=2018-01-01T00:00:00.000000Z&endDT=2020-01-01T12:30:00.500000Z")
	})

	t.Run("skips degenerate windows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		opts := uframe.DefaultRequestOptions()
		opts.BeginTimestamp = "2019-06-01"
		opts.EndTimestamp = "2019-01-01"

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), logger).BuildRequestURLs(loadCatalog(t), "CE01ISSM", opts)

		require.NoError(t, err)
		assert.Empty(t, urls)
		assert.NotNil(t, urls)
		assert.Contains(t, buf.String(), "invalid time range")
	})

	t.Run("derives begin from a calendar offset", func(t *testing.T) {
		t.Parallel()

		opts := uframe.DefaultRequestOptions()
		opts.TimeDeltaType = "days"
		opts.TimeDeltaValue = 7
		opts.BeginTimestamp = "2001-01-01"

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "VELPTA", opts)

		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Contains(t, urls[0], "/CE02SHSM/RID27/04-VELPTA000/telemetered/velpt_ab_dcl_instrument?")
		assert.Contains(t, urls[0], "beginDT=2020-01-01T00:00:00.000000Z&endDT=2020-01-08T00:00:00.000000Z")
	})

	t.Run("clamps a very large offset to the stream begin", func(t *testing.T) {
		t.Parallel()

		opts := uframe.DefaultRequestOptions()
		opts.TimeDeltaType = "hours"
		opts.TimeDeltaValue = 3000000

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "VELPTA", opts)

		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Contains(t, urls[0], "beginDT=2015-04-01T00:00:00.000000Z&endDT=2020-01-08T00:00:00.000000Z")
	})

	t.Run("rejects an invalid time delta type before any stream", func(t *testing.T) {
		t.Parallel()

		opts := uframe.DefaultRequestOptions()
		opts.TimeDeltaType = "fortnights"
		opts.TimeDeltaValue = 2

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "", opts)

		require.Error(t, err)
		assert.Equal(t, uframe.EINVALID, uframe.ErrorCode(err))
		assert.Empty(t, urls)
	})

	t.Run("rejects an invalid timestamp", func(t *testing.T) {
		t.Parallel()

		opts := uframe.DefaultRequestOptions()
		opts.BeginTimestamp = "yesterday-ish"

		_, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "", opts)

		require.Error(t, err)
		assert.Equal(t, uframe.EINVALID, uframe.ErrorCode(err))
	})

	t.Run("filters streams by delivery method", func(t *testing.T) {
		t.Parallel()

		opts := uframe.DefaultRequestOptions()
		opts.Telemetry = "recovered"

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "", opts)

		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Contains(t, urls[0], ctdbpPath+"/recovered_host/ctdbp_cdef_dcl_instrument_recovered?")
		assert.Contains(t, urls[0], "beginDT=2018-01-01T00:00:00.000000Z&endDT=2020-01-08T00:00:00.000000Z")
	})

	t.Run("serializes format, limit, flags, user and email", func(t *testing.T) {
		t.Parallel()

		opts := uframe.DefaultRequestOptions()
		opts.Stream = "velpt_ab_dcl_instrument"
		opts.Format = uframe.FormatJSON
		opts.Limit = 1000
		opts.ExecDPA = false
		opts.IncludeProvenance = false
		opts.User = "mknuth"
		opts.Email = "mknuth@example.org"

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "", opts)

		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Contains(t, urls[0], "&format=application/json&limit=1000&execDPA=false&include_provenance=false&selogging=false&user=mknuth&email=mknuth@example.org")
	})

	t.Run("returns no URLs when no instrument matches", func(t *testing.T) {
		t.Parallel()

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), nil).BuildRequestURLs(loadCatalog(t), "GA01SUMO", uframe.DefaultRequestOptions())

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		cat := loadCatalog(t)
		builder := m2m.NewRequestBuilder(newClient(t, nil), nil)
		opts := uframe.DefaultRequestOptions()
		opts.BeginTimestamp = "2019-02-01"

		first, err := builder.BuildRequestURLs(cat, "", opts)
		require.NoError(t, err)
		second, err := builder.BuildRequestURLs(cat, "", opts)
		require.NoError(t, err)

		assert.Len(t, first, 3)
		assert.Equal(t, first, second)
	})

	t.Run("pads short reference designators", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		toc := &uframe.TOC{Instruments: []uframe.TOCInstrument{{
			ReferenceDesignator: "CE05MOAS-GL319",
			Streams: []uframe.TOCStream{{
				Stream: "glider_eng", Method: "telemetered",
				BeginTime: "2019-01-01T00:00:00.000Z", EndTime: "2019-02-01T00:00:00.000Z",
			}},
		}}}

		urls, err := m2m.NewRequestBuilder(newClient(t, nil), logger).BuildRequestURLs(m2m.BuildCatalog(toc, nil), "", uframe.DefaultRequestOptions())

		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Contains(t, urls[0], "/sensor/inv/CE05MOAS/GL319/-/telemetered/glider_eng?")
		assert.Contains(t, buf.String(), "reference designator does not have four parts")
	})
}
