package app

import "fmt"

// MissingInputExitCode is returned when the archive does not exist.
const MissingInputExitCode = 1

// MissingInputError reports that the archive path does not exist. No
// unpacker is started when it is returned.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("PAK file does not exist: %s", e.Path)
}
