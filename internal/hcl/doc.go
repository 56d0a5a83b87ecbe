// Package hcl reads the optional configuration file written in HashiCorp
// Configuration Language and translates it into the format-agnostic
// config.Model.
package hcl
