// Package commands defines the shamir-recover CLI.
//
// Commands
//
//   - recover    Reconstruct the secret of each request file
//   - pack       Decode a request and store it as a binary bundle
//
// # Configuration
//
// Options are read from an optional YAML file given with --config, using the
// same names as the flags with dashes replaced by underscores. Flags that are
// set on the command line take precedence over the file.
//
// # Exit status
//
// The exit status is 0 when every request succeeds, 2 when any request is
// malformed, and 1 for any other failure.
package commands
