package m2m

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/uframe"
)

var _ uframe.DeploymentService = (*DeploymentService)(nil)

// DeploymentService queries the deployment events endpoint.
type DeploymentService struct {
	client *Client
	logger *slog.Logger
}

// NewDeploymentService creates a new DeploymentService.
func NewDeploymentService(client *Client, logger *slog.Logger) *DeploymentService {
	return &DeploymentService{client: client, logger: orDiscard(logger)}
}

// QueryDeployments fetches the deployment events for refdes and normalizes them.
func (s *DeploymentService) QueryDeployments(ctx context.Context, refdes string, filter uframe.DeploymentFilter) (*uframe.DeploymentResult, error) {
	query := url.Values{"refdes": {refdes}}
	outcome, err := s.client.get(ctx, EventsPort, "events/deployment/query?"+query.Encode())
	if err != nil {
		return nil, err
	}
	events, err := decodeEvents(outcome.Body, s.logger)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		s.logger.Info("no deployment events", "refdes", refdes)
	}
	return NormalizeDeployments(events, filter, s.logger), nil
}

// ActiveDeployments queries each matching catalog instrument in turn and
// concatenates their active deployments. An instrument whose query fails is
// logged and skipped; only cancellation of ctx stops the sweep.
func (s *DeploymentService) ActiveDeployments(ctx context.Context, catalog *uframe.Catalog, refdes, filter string) (*uframe.DeploymentResult, error) {
	result := &uframe.DeploymentResult{
		Raw:    []uframe.RawDeploymentEvent{},
		Events: []uframe.Deployment{},
	}

	instruments := catalog.SearchInstruments(refdes)
	if len(instruments) == 0 {
		s.logger.Warn("no instruments found", "refdes", refdes)
		return result, nil
	}

	f := uframe.DeploymentFilter{ReferenceDesignator: filter, Status: uframe.DeploymentStatusActive}
	for _, id := range instruments {
		r, err := s.QueryDeployments(ctx, id, f)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			s.logger.Warn("skipping instrument deployments", "refdes", id, "err", err)
			continue
		}
		result.Raw = append(result.Raw, r.Raw...)
		result.Events = append(result.Events, r.Events...)
	}

	s.logger.Info("queried active deployments", "requests", len(instruments), "count", len(result.Events))
	return result, nil
}

// decodeEvents decodes each event on its own so that one malformed event
// does not discard the rest of the batch.
func decodeEvents(body []byte, logger *slog.Logger) ([]uframe.RawDeploymentEvent, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, uframe.Errorf(uframe.EPARSE, "invalid deployment events: %v", err)
	}
	events := make([]uframe.RawDeploymentEvent, 0, len(items))
	for i, item := range items {
		var ev uframe.RawDeploymentEvent
		if err := json.Unmarshal(item, &ev); err != nil {
			logger.Warn("skipping malformed deployment event", "index", i, "err", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// NormalizeDeployments validates raw events and converts the survivors to
// Deployments, in encounter order. A zero start or stop time counts as
// absent. An event is skipped when it lacks a fully qualified reference
// designator or a start time, when either of its times
// cannot be converted, or when it does not match filter.
func NormalizeDeployments(events []uframe.RawDeploymentEvent, filter uframe.DeploymentFilter, logger *slog.Logger) *uframe.DeploymentResult {
	logger = orDiscard(logger)
	result := &uframe.DeploymentResult{
		Raw:    []uframe.RawDeploymentEvent{},
		Events: []uframe.Deployment{},
	}

	for _, ev := range events {
		rd := ev.ReferenceDesignator
		if !rd.Qualified() {
			logger.Warn("deployment event has no fully qualified reference designator",
				"event", ev.EventName, "eventId", ev.EventID)
			continue
		}
		refdes := rd.String()

		if ev.EventStartTime == nil || *ev.EventStartTime == 0 {
			logger.Warn("deployment event has no eventStartTime",
				"event", ev.EventName, "eventId", ev.EventID, "refdes", refdes)
			continue
		}
		start, err := uframe.FormatEpochMillis(*ev.EventStartTime)
		if err != nil {
			logger.Error("invalid eventStartTime",
				"event", ev.EventName, "eventId", ev.EventID, "refdes", refdes, "err", err)
			continue
		}

		d := uframe.Deployment{
			Instrument: uframe.DeploymentInstrument{
				ReferenceDesignator: refdes,
				Subsite:             rd.Subsite,
				Node:                rd.Node,
				Sensor:              rd.Sensor,
				Full:                rd.Full,
			},
			DeploymentNumber: ev.DeploymentNumber,
			EventStartMs:     *ev.EventStartTime,
			EventStart:       start,
		}

		if ev.EventStopTime != nil && *ev.EventStopTime != 0 {
			stop, err := uframe.FormatEpochMillis(*ev.EventStopTime)
			if err != nil {
				logger.Error("invalid eventStopTime",
					"event", ev.EventName, "eventId", ev.EventID, "refdes", refdes, "err", err)
				continue
			}
			stopMs := *ev.EventStopTime
			d.EventStopMs = &stopMs
			d.EventStop = stop
		} else {
			d.Active = true
		}
		d.Valid = true

		if !filter.Status.Match(d.Active) {
			continue
		}
		if filter.ReferenceDesignator != "" && !strings.Contains(refdes, filter.ReferenceDesignator) {
			continue
		}

		result.Raw = append(result.Raw, ev)
		result.Events = append(result.Events, d)
	}

	return result
}
