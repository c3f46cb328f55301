//go:build darwin

package recorder

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

// darwinPty is adapted from the interactive terminal view's own
// openpty-via-dlopen trick: darwin's os/exec tree has no direct posix_openpty
// binding, so the master/slave fds are obtained straight from libSystem.
type darwinPty struct {
	mu     sync.Mutex
	master *os.File
	cmd    *exec.Cmd
}

var (
	ptyInitOnce sync.Once
	ptyInitErr  error

	libSystem uintptr
	openptyFn func(master, slave *int32, name *byte, termp *unix.Termios, winp *unix.Winsize) int32
)

func ensurePty() error {
	ptyInitOnce.Do(func() {
		var err error
		libSystem, err = purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_GLOBAL)
		if err != nil {
			ptyInitErr = err
			return
		}
		purego.RegisterLibFunc(&openptyFn, libSystem, "openpty")
	})
	return ptyInitErr
}

func startShell(shell string, args []string, env []string, cols, rows int) (pty, error) {
	if err := ensurePty(); err != nil {
		return nil, fmt.Errorf("recorder: load openpty: %w", err)
	}

	ws := &unix.Winsize{Row: uint16(rows), Col: uint16(cols)}

	var masterFD, slaveFD int32
	if rc := openptyFn(&masterFD, &slaveFD, nil, nil, ws); rc != 0 {
		return nil, fmt.Errorf("recorder: openpty failed: %d", rc)
	}

	master := os.NewFile(uintptr(masterFD), "pty-master")
	slave := os.NewFile(uintptr(slaveFD), "pty-slave")
	if master == nil || slave == nil {
		return nil, errors.New("recorder: failed to create pty files")
	}

	cmd := exec.Command(shell, args...)
	cmd.Env = env
	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}

	if err := cmd.Start(); err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("recorder: start shell: %w", err)
	}
	slave.Close()

	return &darwinPty{master: master, cmd: cmd}, nil
}

func (p *darwinPty) Read(b []byte) (int, error)  { return p.master.Read(b) }
func (p *darwinPty) Write(b []byte) (int, error) { return p.master.Write(b) }

func (p *darwinPty) Resize(cols, rows int) error {
	return unix.IoctlSetWinsize(int(p.master.Fd()), unix.TIOCSWINSZ, &unix.Winsize{
		Row: uint16(rows), Col: uint16(cols),
	})
}

func (p *darwinPty) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.master.Close()
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return err
}

func (p *darwinPty) Wait() error {
	if p.cmd == nil {
		return nil
	}
	return p.cmd.Wait()
}
