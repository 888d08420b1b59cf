package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/uframe"
	"github.com/fwojciec/uframe/fs"
)

// Run executes the toc save command.
func (c *TOCSaveCmd) Run(deps *Dependencies) error {
	content, err := deps.TOC.FetchTOC(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}
	toc, err := uframe.ParseTOC(content)
	if err != nil {
		return deps.fail(err)
	}

	snap := &uframe.Snapshot{
		BaseURL:         deps.BaseURL,
		InstrumentCount: len(toc.Instruments),
		Content:         content,
	}
	if err := deps.Snapshots.CreateSnapshot(deps.Ctx, snap); err != nil {
		return deps.fail(err)
	}

	if c.Output != "" {
		if err := fs.WriteTOC(c.Output, content); err != nil {
			return deps.fail(err)
		}
	}

	fmt.Fprintf(deps.Stdout, "%s (%d instruments, fetched %s)\n",
		snap.ID, snap.InstrumentCount, snap.FetchedAt.Format(time.RFC3339))
	return nil
}

// Run executes the toc list command.
func (c *TOCListCmd) Run(deps *Dependencies) error {
	filter := uframe.SnapshotFilter{Limit: c.Limit}
	if !c.All && deps.BaseURL != "" {
		filter.BaseURL = &deps.BaseURL
	}

	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, filter)
	if err != nil {
		return deps.fail(err)
	}
	if len(snaps) == 0 {
		fmt.Fprintln(deps.Stdout, "No snapshots stored. Use 'uframe toc save' to create one.")
		return nil
	}

	for _, s := range snaps {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d instruments  %s\n", s.ID, s.BaseURL, s.InstrumentCount, s.FetchedAt.Format(time.RFC3339))
	}
	return nil
}

// Run executes the toc export command.
func (c *TOCExportCmd) Run(deps *Dependencies) error {
	id := c.ID
	if id == "" {
		id = "latest"
	}
	snap, err := findSnapshot(deps, id)
	if err != nil {
		return deps.fail(err)
	}
	if err := fs.WriteTOC(c.Path, snap.Content); err != nil {
		return deps.fail(err)
	}
	fmt.Fprintf(deps.Stdout, "Wrote snapshot %s to %s\n", snap.ID, c.Path)
	return nil
}

// Run executes the toc delete command.
func (c *TOCDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Snapshots.DeleteSnapshot(deps.Ctx, c.ID); err != nil {
		return deps.fail(err)
	}
	fmt.Fprintf(deps.Stdout, "Deleted snapshot %s\n", c.ID)
	return nil
}

// findSnapshot loads a snapshot with its content. The ID "latest" selects
// the newest snapshot of the configured instance.
func findSnapshot(deps *Dependencies, id string) (*uframe.Snapshot, error) {
	if deps.Snapshots == nil {
		return nil, uframe.Errorf(uframe.ECONFIG, "snapshot database is not open")
	}
	if id != "latest" {
		return deps.Snapshots.FindSnapshotByID(deps.Ctx, id)
	}

	if deps.BaseURL == "" {
		return nil, uframe.Errorf(uframe.ECONFIG, "the latest snapshot needs --base-url")
	}
	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, uframe.SnapshotFilter{BaseURL: &deps.BaseURL, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, uframe.Errorf(uframe.ENOTFOUND, "no snapshots stored for %s", deps.BaseURL)
	}
	return deps.Snapshots.FindSnapshotByID(deps.Ctx, snaps[0].ID)
}
