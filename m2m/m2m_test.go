package m2m_test

import (
	"context"
	"testing"

	"github.com/fwojciec/uframe"
	"github.com/fwojciec/uframe/m2m"
	"github.com/fwojciec/uframe/mock"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://ooinet.example.org"

const tocJSON = `{
  "instruments": [
    {
      "reference_designator": "CE01ISSM-MFD37-03-CTDBPC000",
      "platform_code": "CE01ISSM",
      "streams": [
        {"stream": "ctdbp_cdef_dcl_instrument", "method": "telemetered", "beginTime": "2019-01-01T00:00:00.000Z", "endTime": "2019-06-01T00:00:00.000Z"},
        {"stream": "ctdbp_cdef_dcl_instrument_recovered", "method": "recovered_host", "beginTime": "2018-01-01T00:00:00.000Z", "endTime": "2020-01-08T00:00:00.000Z"}
      ]
    },
    {
      "reference_designator": "CE02SHSM-RID27-04-VELPTA000",
      "streams": [
        {"stream": "velpt_ab_dcl_instrument", "method": "telemetered", "beginTime": "2015-04-01T00:00:00.000Z", "endTime": "2020-01-08T00:00:00.000Z"}
      ]
    }
  ],
  "parameter_definitions": [
    {"pdId": 7, "particle_key": "time"},
    {"pdId": "PD908", "particle_key": "ctdbp_seawater_temperature"},
    {"pdId": 1001, "particle_key": "velpt_ab_dcl_heading"}
  ],
  "parameters_by_stream": {
    "ctdbp_cdef_dcl_instrument": [7, "PD908"],
    "velpt_ab_dcl_instrument": [7, 1001],
    "metbk_hourly": [7]
  }
}`

func loadCatalog(t *testing.T) *uframe.Catalog {
	t.Helper()

	toc, err := uframe.ParseTOC([]byte(tocJSON))
	require.NoError(t, err)
	return m2m.BuildCatalog(toc, nil)
}

func newClient(t *testing.T, transport uframe.Transport) *m2m.Client {
	t.Helper()

	if transport == nil {
		transport = &mock.Transport{
			GetFn: func(ctx context.Context, url string) (*uframe.RequestOutcome, error) {
				t.Fatalf("unexpected request to %s", url)
				return nil, nil
			},
		}
	}
	client, err := m2m.NewClient(baseURL, transport)
	require.NoError(t, err)
	return client
}

func okOutcome(url, body string) *uframe.RequestOutcome {
	return &uframe.RequestOutcome{
		URL:        url,
		StatusCode: uframe.StatusOK,
		Status:     "200 OK",
		Body:       []byte(body),
	}
}
