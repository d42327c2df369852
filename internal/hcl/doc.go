// Package hcl provides the HCL-specific implementation of the config.Loader
// and config.Writer interfaces. It decodes the revgraph configuration file
// with gohcl and translates it into the format-agnostic config.Model, and
// renders a model back to HCL with hclwrite.
package hcl
