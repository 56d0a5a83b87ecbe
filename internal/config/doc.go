// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from a file
// and helpers for resolving settings from the process environment.
//
// Concrete file formats, such as HCL, are provided in separate packages.
package config
