package textio

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// cmdReader streams a subprocess's stdout while capturing its stderr.
// Close waits for the process; a non-zero exit becomes an error carrying
// the captured stderr.
type cmdReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
}

// command starts name with args and returns a reader over its stdout.
func command(name string, args ...string) (io.ReadCloser, error) {
	cmd := exec.Command(name, args...)
	r := &cmdReader{cmd: cmd}
	cmd.Stderr = &r.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe %s: %w", name, err)
	}
	r.stdout = stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	return r, nil
}

func (r *cmdReader) Read(p []byte) (int, error) {
	return r.stdout.Read(p)
}

func (r *cmdReader) Close() error {
	io.Copy(io.Discard, r.stdout)
	if err := r.cmd.Wait(); err != nil {
		msg := strings.TrimSpace(r.stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", strings.Join(r.cmd.Args, " "), err, msg)
		}
		return fmt.Errorf("%s: %w", strings.Join(r.cmd.Args, " "), err)
	}
	return nil
}
