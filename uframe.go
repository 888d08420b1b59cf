// Package uframe provides a client for the UFrame machine-to-machine (m2m)
// data-services API. It discovers registered oceanographic instruments, the
// data streams they produce and their deployment history, and builds
// well-formed data-extraction request URLs against those streams.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, sqlite/, slog/).
package uframe
