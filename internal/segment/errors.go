package segment

import "fmt"

// ExternalToolError reports a failed or unusable ffmpeg run.
type ExternalToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	// Output is the tool's diagnostic output (stderr).
	Output string
	Err    error
}

func (e *ExternalToolError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed (exit %d): %v: %s", e.Tool, e.ExitCode, e.Err, e.Output)
	}
	return fmt.Sprintf("%s failed (exit %d): %v", e.Tool, e.ExitCode, e.Err)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}
