package main

import (
	"fmt"
	"strconv"

	"github.com/fwojciec/uframe"
)

func (c *RequestsCmd) options() uframe.RequestOptions {
	opts := uframe.DefaultRequestOptions()
	opts.Stream = c.Stream
	opts.Telemetry = c.Telemetry
	opts.TimeDeltaType = c.DeltaType
	opts.TimeDeltaValue = c.DeltaValue
	opts.BeginTimestamp = c.Begin
	opts.EndTimestamp = c.End
	opts.TimeCheck = c.TimeCheck
	opts.ExecDPA = c.ExecDPA
	opts.Format = c.Format
	opts.IncludeProvenance = c.Provenance
	opts.IncludeAnnotations = c.Annotations
	opts.Limit = c.Limit
	if c.RequestUser != "" {
		opts.User = c.RequestUser
	}
	opts.Email = c.Email
	return opts
}

// Run executes the requests command.
func (c *RequestsCmd) Run(deps *Dependencies) error {
	cat, _, err := deps.lookup()
	if err != nil {
		return err
	}

	urls, err := deps.Requests.BuildRequestURLs(cat, c.RefDes, c.options())
	if err != nil {
		return deps.fail(err)
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stderr, "No requests to build.")
		return nil
	}

	if !c.Send {
		writeLines(deps.Stdout, urls)
		return nil
	}

	failed := 0
	for _, u := range urls {
		outcome, err := deps.Dispatcher.Send(deps.Ctx, u)
		if err != nil {
			if deps.Ctx.Err() != nil {
				return deps.fail(err)
			}
			failed++
			fmt.Fprintf(deps.Stdout, "error: %s\t%s\n", uframe.ErrorMessage(err), u)
			continue
		}
		if !outcome.OK() {
			failed++
		}
		fmt.Fprintf(deps.Stdout, "%s\t%s\n", strconv.Itoa(outcome.StatusCode), u)
	}
	fmt.Fprintf(deps.Stdout, "\nSent: %d  Failed: %d\n", len(urls)-failed, failed)

	if failed > 0 {
		return deps.fail(uframe.Errorf(uframe.EFETCH, "%d of %d requests failed", failed, len(urls)))
	}
	return nil
}
