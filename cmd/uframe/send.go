package main

import (
	"fmt"
	"strconv"

	"github.com/fwojciec/uframe"
)

// Run executes the send command.
func (c *SendCmd) Run(deps *Dependencies) error {
	outcome, err := deps.Dispatcher.Send(deps.Ctx, c.URL)
	if err != nil {
		return deps.fail(err)
	}

	status := outcome.Status
	if status == "" {
		status = strconv.Itoa(outcome.StatusCode)
	}
	fmt.Fprintln(deps.Stdout, status)
	if len(outcome.Body) > 0 {
		fmt.Fprintf(deps.Stdout, "%s\n", outcome.Body)
	}
	if !outcome.OK() {
		msg := outcome.Message
		if msg == "" {
			msg = outcome.Status
		}
		return deps.fail(uframe.Errorf(uframe.EFETCH, "request rejected: %s", msg))
	}
	return nil
}
