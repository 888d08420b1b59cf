package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/uframe"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// BaseURL is the normalized UFrame base URL, empty when none is configured.
	BaseURL string

	Catalogs    uframe.CatalogService
	TOC         uframe.TOCFetcher
	Deployments uframe.DeploymentService
	Requests    uframe.RequestBuilder
	Dispatcher  uframe.Dispatcher
	Snapshots   uframe.SnapshotService
}

// Globals are the flags shared by every command.
type Globals struct {
	BaseURL     string        `name:"base-url" env:"UFRAME_BASE_URL" help:"UFrame instance URL (http:// or https://)"`
	Timeout     time.Duration `default:"120s" help:"Timeout per m2m request"`
	User        string        `env:"UFRAME_API_USER" help:"API user name"`
	Token       string        `env:"UFRAME_API_TOKEN" help:"API token"`
	Insecure    bool          `help:"Skip TLS certificate verification"`
	Rate        float64       `default:"0" help:"Maximum m2m requests per second (0 disables limiting)"`
	TOCFile     string        `name:"toc-file" type:"path" help:"Load the catalog from a saved TOC file instead of the instance"`
	Snapshot    string        `help:"Load the catalog from a stored snapshot ID, or 'latest' for the newest snapshot of --base-url"`
	DB          string        `env:"UFRAME_DB" help:"Snapshot database path"`
	Config      string        `env:"UFRAME_CONFIG" help:"Config file path"`
	LogLevel    string        `name:"log-level" enum:"debug,info,warn,error" default:"warn" help:"Log level (debug, info, warn, error)"`
	MetricsFile string        `name:"metrics-file" help:"Write request metrics to this file on exit"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Instruments InstrumentsCmd `cmd:"" help:"Search instruments by reference designator"`
	Subsites    SubsitesCmd    `cmd:"" help:"Search subsites"`
	Streams     StreamsCmd     `cmd:"" help:"Search stream names"`
	Parameters  ParametersCmd  `cmd:"" help:"Search parameter names"`
	Deployments DeploymentsCmd `cmd:"" help:"Query deployment events for an instrument"`
	Requests    RequestsCmd    `cmd:"" help:"Build data request URLs, and optionally send them"`
	Send        SendCmd        `cmd:"" help:"Send a single data request URL"`
	TOC         TOCCmd         `cmd:"" name:"toc" help:"Manage stored table of contents snapshots"`
}

// InstrumentsCmd is the "instruments" subcommand.
type InstrumentsCmd struct {
	RefDes   string `arg:"" optional:"" help:"Reference designator fragment (empty for all)"`
	Streams  bool   `help:"List the streams of each matching instrument"`
	Metadata bool   `help:"Print the full TOC entry of each matching instrument"`
	CSV      bool   `name:"csv" help:"Write streams as CSV"`
}

// SubsitesCmd is the "subsites" subcommand.
type SubsitesCmd struct {
	Subsite string `arg:"" optional:"" help:"Subsite fragment (empty for all)"`
	JSON    bool   `name:"json" help:"Write a JSON array"`
}

// StreamsCmd is the "streams" subcommand.
type StreamsCmd struct {
	Fragment    string `arg:"" optional:"" help:"Stream name fragment (empty for all)"`
	Instruments bool   `help:"List the instruments producing matching streams"`
}

// ParametersCmd is the "parameters" subcommand.
type ParametersCmd struct {
	Fragment string `arg:"" optional:"" help:"Parameter name fragment (empty for all)"`
}

// DeploymentsCmd is the "deployments" subcommand.
type DeploymentsCmd struct {
	RefDes    string `arg:"" optional:"" help:"Partial or fully qualified reference designator"`
	Status    string `default:"all" enum:"all,active,inactive" help:"Deployment status (all, active, inactive)"`
	Filter    string `help:"Keep events whose reference designator contains this fragment"`
	ActiveAll bool   `name:"active-all" help:"Query active deployments for every catalog instrument matching the designator"`
	CSV       bool   `name:"csv" help:"Write CSV"`
	Raw       bool   `help:"Write the events as served by the instance"`
}

// RequestsCmd is the "requests" subcommand.
type RequestsCmd struct {
	RefDes      string `arg:"" optional:"" help:"Reference designator fragment (empty for all)"`
	Stream      string `help:"Exact stream name"`
	Telemetry   string `help:"Delivery method fragment, e.g. telemetered or recovered"`
	DeltaType   string `name:"delta-type" help:"Request the last --delta-value units of each stream (years, months, weeks, days, hours, minutes, seconds)"`
	DeltaValue  int    `name:"delta-value" help:"Number of --delta-type units"`
	Begin       string `help:"ISO-8601 start time"`
	End         string `help:"ISO-8601 end time"`
	TimeCheck   bool   `name:"time-check" default:"true" negatable:"" help:"Clamp times to stream coverage"`
	ExecDPA     bool   `name:"exec-dpa" default:"true" negatable:"" help:"Execute data product algorithms"`
	Format      string `default:"netcdf" enum:"netcdf,json" help:"Response format (netcdf, json)"`
	Provenance  bool   `default:"true" negatable:"" help:"Include provenance"`
	Annotations bool   `help:"Include annotations"`
	Limit       int    `default:"-1" help:"Maximum number of records (-1 for all)"`
	RequestUser string `name:"request-user" help:"User name sent with each request"`
	Email       string `help:"Notification email address"`
	Send        bool   `help:"Send the requests one after another instead of printing them"`
}

// SendCmd is the "send" subcommand.
type SendCmd struct {
	URL string `arg:"" help:"Request URL built for this instance"`
}

// TOCCmd groups the snapshot subcommands.
type TOCCmd struct {
	Save   TOCSaveCmd   `cmd:"" help:"Fetch the TOC and store a snapshot"`
	List   TOCListCmd   `cmd:"" help:"List stored snapshots"`
	Export TOCExportCmd `cmd:"" help:"Write a stored snapshot to a file"`
	Delete TOCDeleteCmd `cmd:"" help:"Delete a stored snapshot"`
}

// TOCSaveCmd is the "toc save" subcommand.
type TOCSaveCmd struct {
	Output string `short:"o" type:"path" help:"Also write the TOC to this file"`
}

// TOCListCmd is the "toc list" subcommand.
type TOCListCmd struct {
	All   bool `help:"List snapshots of every instance"`
	Limit int  `default:"20" help:"Maximum number of snapshots"`
}

// TOCExportCmd is the "toc export" subcommand.
type TOCExportCmd struct {
	Path string `arg:"" type:"path" help:"Output file"`
	ID   string `help:"Snapshot ID (default: newest snapshot of --base-url)"`
}

// TOCDeleteCmd is the "toc delete" subcommand.
type TOCDeleteCmd struct {
	ID string `arg:"" help:"Snapshot ID"`
}
