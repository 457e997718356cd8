// Package pid keeps a single exporter running per monitored instance.
package pid

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
)

const pidFilePerm = 0o600

// File is a PID file owned by the current process.
type File struct {
	path string
}

// Path returns the PID file for the instance at host:port in dir. An empty
// dir means the system temp directory.
func Path(dir, host string, port int) string {
	if dir == "" {
		dir = os.TempDir()
	}
	name := strings.NewReplacer("/", "_", ":", "_").Replace(host)

	return filepath.Join(dir, fmt.Sprintf("mysqlstatus-%s-%d.pid", name, port))
}

// Write claims path for the current process. It fails with
// ErrAlreadyRunning when the recorded process is still alive. Stale files
// are replaced.
func Write(path string) (*File, error) {
	errFactory := errors.New()

	if raw, err := os.ReadFile(path); err == nil {
		if running(strings.TrimSpace(string(raw))) {
			return nil, errFactory.New(errors.ErrAlreadyRunning).WithData(path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), pidFilePerm); err != nil {
		return nil, errFactory.Wrap(errors.ErrInternal, err)
	}

	return &File{path: path}, nil
}

// Remove deletes the PID file. A missing file is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func running(raw string) bool {
	pid, err := strconv.Atoi(raw)
	if err != nil || pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
