package m2m

import (
	"context"
	"log/slog"

	"github.com/fwojciec/uframe"
)

// BuildCatalog translates a TOC document into an indexed Catalog. Parameter
// definitions are joined to streams through parameters_by_stream and every
// instrument receives the parameters of the streams it produces. A stream
// time that cannot be parsed leaves only that epoch field unset.
func BuildCatalog(toc *uframe.TOC, logger *slog.Logger) *uframe.Catalog {
	logger = orDiscard(logger)
	if toc == nil {
		return uframe.NewCatalog(nil, nil, nil, uframe.WithLogger(logger))
	}

	defs := make(map[uframe.ParameterID]uframe.TOCParameter, len(toc.ParameterDefinitions))
	keys := make([]string, 0, len(toc.ParameterDefinitions))
	for _, p := range toc.ParameterDefinitions {
		defs[p.PdID] = p
		keys = append(keys, p.ParticleKey)
	}

	streamNames := make([]string, 0, len(toc.ParametersByStream))
	byStream := make(map[string][]uframe.Parameter, len(toc.ParametersByStream))
	for stream, ids := range toc.ParametersByStream {
		streamNames = append(streamNames, stream)
		params := make([]uframe.Parameter, 0, len(ids))
		for _, id := range ids {
			def, ok := defs[id]
			if !ok {
				logger.Warn("unknown parameter id", "stream", stream, "pdId", id)
				continue
			}
			params = append(params, uframe.Parameter{ID: id, ParticleKey: def.ParticleKey, Stream: stream})
		}
		byStream[stream] = params
	}

	instruments := make([]*uframe.Instrument, 0, len(toc.Instruments))
	for _, ti := range toc.Instruments {
		refdes := ti.ReferenceDesignator
		if refdes == "" {
			logger.Warn("instrument has no reference designator")
			continue
		}
		inst := &uframe.Instrument{
			ReferenceDesignator: refdes,
			Streams:             make([]uframe.Stream, 0, len(ti.Streams)),
			Parameters:          []uframe.Parameter{},
			Metadata:            ti.Metadata,
		}
		for _, ts := range ti.Streams {
			inst.Streams = append(inst.Streams, uframe.Stream{
				Name:                ts.Stream,
				Method:              ts.Method,
				BeginTime:           ts.BeginTime,
				EndTime:             ts.EndTime,
				BeginTimeEpochMs:    epochField(logger, refdes, ts.Stream, "beginTime", ts.BeginTime),
				EndTimeEpochMs:      epochField(logger, refdes, ts.Stream, "endTime", ts.EndTime),
				ReferenceDesignator: refdes,
			})
			inst.Parameters = append(inst.Parameters, byStream[ts.Stream]...)
			streamNames = append(streamNames, ts.Stream)
		}
		instruments = append(instruments, inst)
	}

	return uframe.NewCatalog(instruments, keys, streamNames, uframe.WithLogger(logger))
}

func epochField(logger *slog.Logger, refdes, stream, field, value string) *int64 {
	ms, err := uframe.EpochMillis(value)
	if err != nil {
		logger.Error("stream time conversion failed",
			"refdes", refdes,
			"stream", stream,
			"field", field,
			"value", value,
		)
		return nil
	}
	return &ms
}

// Ensure service types implement uframe interfaces at compile time.
var (
	_ uframe.CatalogService = (*CatalogService)(nil)
	_ uframe.TOCFetcher     = (*CatalogService)(nil)
	_ uframe.CatalogService = (*StaticCatalogService)(nil)
)

// CatalogService loads the catalog from the sensor inventory TOC endpoint.
type CatalogService struct {
	client *Client
	logger *slog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(client *Client, logger *slog.Logger) *CatalogService {
	return &CatalogService{client: client, logger: orDiscard(logger)}
}

// FetchTOC returns the raw TOC document.
func (s *CatalogService) FetchTOC(ctx context.Context) ([]byte, error) {
	outcome, err := s.client.get(ctx, SensorInventoryPort, "sensor/inv/toc")
	if err != nil {
		return nil, err
	}
	return outcome.Body, nil
}

// LoadCatalog fetches the TOC and builds a new Catalog from it.
func (s *CatalogService) LoadCatalog(ctx context.Context) (*uframe.Catalog, error) {
	body, err := s.FetchTOC(ctx)
	if err != nil {
		return nil, err
	}
	toc, err := uframe.ParseTOC(body)
	if err != nil {
		return nil, err
	}
	return BuildCatalog(toc, s.logger), nil
}

// StaticCatalogService serves a catalog built once from a pre-fetched TOC.
// It never contacts the UFrame instance.
type StaticCatalogService struct {
	catalog *uframe.Catalog
}

// NewStaticCatalogService builds the catalog for toc.
func NewStaticCatalogService(toc *uframe.TOC, logger *slog.Logger) *StaticCatalogService {
	return &StaticCatalogService{catalog: BuildCatalog(toc, logger)}
}

// LoadCatalog returns the prebuilt catalog.
func (s *StaticCatalogService) LoadCatalog(ctx context.Context) (*uframe.Catalog, error) {
	return s.catalog, nil
}
