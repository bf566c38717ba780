package action

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// WriteOutputs appends step outputs to the file GitHub Actions reads them
// from. An empty path means the process is not running inside a workflow.
func WriteOutputs(path string, outputs map[string]string) error {
	if path == "" || len(outputs) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		value := outputs[name]
		if strings.ContainsAny(value, "\r\n") {
			delimiter := "ghadelimiter_" + uuid.NewString()
			fmt.Fprintf(&b, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", name, value)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write outputs: %w", err)
	}
	return nil
}
