// Package config defines the format-agnostic configuration model for revgraph
// and the Loader interface for reading it from a file.
//
// The `config.Model` carries everything the scanner, layout, query and report
// packages can be tuned with. Concrete file formats, such as HCL, are
// implemented in separate packages.
package config
