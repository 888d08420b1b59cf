package main

import (
	"strconv"

	"github.com/fwojciec/uframe"
)

// Run executes the deployments command.
func (c *DeploymentsCmd) Run(deps *Dependencies) error {
	var result *uframe.DeploymentResult
	if c.ActiveAll {
		cat, _, err := deps.lookup()
		if err != nil {
			return err
		}
		result, err = deps.Deployments.ActiveDeployments(deps.Ctx, cat, c.RefDes, c.Filter)
		if err != nil {
			return deps.fail(err)
		}
	} else {
		if c.RefDes == "" {
			return deps.fail(uframe.Errorf(uframe.EINVALID, "reference designator required. Use --active-all to sweep the catalog"))
		}
		status, err := uframe.ParseDeploymentStatus(c.Status)
		if err != nil {
			return deps.fail(err)
		}
		result, err = deps.Deployments.QueryDeployments(deps.Ctx, c.RefDes, uframe.DeploymentFilter{
			ReferenceDesignator: c.Filter,
			Status:              status,
		})
		if err != nil {
			return deps.fail(err)
		}
	}

	switch {
	case c.Raw:
		return writeJSON(deps.Stdout, result.Raw)
	case c.CSV:
		rows := make([][]string, 0, len(result.Events))
		for _, d := range result.Events {
			stopMs := ""
			if d.EventStopMs != nil {
				stopMs = strconv.FormatInt(*d.EventStopMs, 10)
			}
			rows = append(rows, []string{
				d.Instrument.ReferenceDesignator,
				strconv.Itoa(d.DeploymentNumber),
				strconv.FormatBool(d.Active),
				d.EventStart,
				d.EventStop,
				strconv.FormatInt(d.EventStartMs, 10),
				stopMs,
				strconv.FormatBool(d.Valid),
			})
		}
		return writeCSV(deps.Stdout, []string{
			"reference_designator", "deployment_number", "active",
			"event_start_ts", "event_stop_ts", "event_start_ms", "event_stop_ms", "valid_event",
		}, rows)
	}
	return writeJSON(deps.Stdout, result.Events)
}
