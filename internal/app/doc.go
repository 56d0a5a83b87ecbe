// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the single linear unpack lifecycle:
// validate the archive, prepare the output directory, hand the work to the
// unpacker and report its exit status. It is decoupled from any specific
// entrypoint like a CLI.
package app
