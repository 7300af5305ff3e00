package lifecycle

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// detachEnv marks the re-executed child of a Detach call.
const detachEnv = "CERESMAINT_DETACHED"

// Detacher separates the process from its controlling session. The core only
// consumes this interface; how (or whether) detaching happens is an external
// concern.
type Detacher interface {
	// Detach returns true when the caller is the process that should keep
	// running, and false when it is the parent that spawned a detached
	// child and should exit cleanly.
	Detach() (bool, error)
}

// SessionDetacher re-executes the binary with an environment marker; the
// child starts a new session and runs with its standard streams on /dev/null.
type SessionDetacher struct{}

func (SessionDetacher) Detach() (bool, error) {
	if os.Getenv(detachEnv) == "1" {
		// Already the detached child. Setsid fails only when the child is
		// somehow a process group leader already, which is fine to ignore.
		_, _ = unix.Setsid()
		return true, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Errorf("resolve executable: %w", err)
	}
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), detachEnv+"=1")
	cmd.Stdin = devnull
	cmd.Stdout = devnull
	cmd.Stderr = devnull
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("start detached process: %w", err)
	}
	if err := cmd.Process.Release(); err != nil {
		return false, fmt.Errorf("release detached process: %w", err)
	}
	return false, nil
}

// NullDetacher reports the current process as final without doing anything.
// Used for foreground runs and tests.
type NullDetacher struct{}

func (NullDetacher) Detach() (bool, error) { return true, nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// LogSink selects the destination for run logging: an explicit file when
// configured, the inherited stdout for foreground runs, and a discard sink
// once detached. The same sink feeds dispatcher failure logging and the
// plugin-visible logger.
func LogSink(logFile string, daemonized bool) (io.WriteCloser, error) {
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		return file, nil
	}
	if !daemonized {
		return nopWriteCloser{os.Stdout}, nil
	}
	return nopWriteCloser{io.Discard}, nil
}
