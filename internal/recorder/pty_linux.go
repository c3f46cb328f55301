//go:build linux

package recorder

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

type unixPty struct {
	mu     sync.Mutex
	master *os.File
	cmd    *exec.Cmd
}

func startShell(shell string, args []string, env []string, cols, rows int) (pty, error) {
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("recorder: open /dev/ptmx: %w", err)
	}

	if err := unix.IoctlSetInt(int(master.Fd()), unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, fmt.Errorf("recorder: unlock pty: %w", err)
	}
	n, err := unix.IoctlGetInt(int(master.Fd()), unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, fmt.Errorf("recorder: read pty number: %w", err)
	}

	slavePath := fmt.Sprintf("/dev/pts/%d", n)
	slave, err := os.OpenFile(slavePath, os.O_RDWR, 0)
	if err != nil {
		master.Close()
		return nil, fmt.Errorf("recorder: open %s: %w", slavePath, err)
	}

	if err := unix.IoctlSetWinsize(int(master.Fd()), unix.TIOCSWINSZ, &unix.Winsize{
		Row: uint16(rows), Col: uint16(cols),
	}); err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("recorder: set initial winsize: %w", err)
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

	return &unixPty{master: master, cmd: cmd}, nil
}

func (p *unixPty) Read(b []byte) (int, error)  { return p.master.Read(b) }
func (p *unixPty) Write(b []byte) (int, error) { return p.master.Write(b) }

func (p *unixPty) Resize(cols, rows int) error {
	return unix.IoctlSetWinsize(int(p.master.Fd()), unix.TIOCSWINSZ, &unix.Winsize{
		Row: uint16(rows), Col: uint16(cols),
	})
}

func (p *unixPty) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.master.Close()
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return err
}

func (p *unixPty) Wait() error {
	if p.cmd == nil {
		return nil
	}
	return p.cmd.Wait()
}
