// Package cli turns the mazesearch command line into an app.Config.
//
// Without a subcommand the flags describe a run: maze size and seed, which
// searches to execute, where trace logs go and an optional viewer to stream
// frames to. Only flags given explicitly override the HCL configuration file.
// The "replay" subcommand takes a trace log, or a directory of them, and its
// frame delay. Usage errors are reported as an ExitError with code 2.
package cli
