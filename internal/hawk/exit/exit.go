package exit

import (
	"fmt"
	"io"
	"os"
)

// Result carries what the process prints before terminating and the code it exits with.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes Message to Output, ending it with a newline if it lacks one.
func (r *Result) Print() {
	if r.Message == "" {
		return
	}
	fmt.Fprint(r.Output, r.Message)
	if r.Message[len(r.Message)-1] != '\n' {
		fmt.Fprintln(r.Output)
	}
}

func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: 0,
		Message:  message,
	}
}

func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: 1,
		Message:  message,
	}
}

func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// FromError reports err the way every failed query is reported: one
// "Error: ..." line on stderr and exit code 1.
func FromError(err error) *Result {
	return Errorf("Error: %v\n", err)
}
