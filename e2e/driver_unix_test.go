//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/creack/pty"
)

// binPath is set by TestMain once the binary is built
var binPath = "postboard_e2e"

// maxScrollback bounds how much terminal output a Board keeps
const maxScrollback = 1 << 20

// Keys understood by the board
const (
	KeyEnter  = "\r"
	KeyEsc    = "\x1b"
	KeyCtrlC  = "\x03"
	KeyQuit   = "q"
	KeySearch = "/"
	KeyAdd    = "a"
	KeyClear  = "c"
)

// ansiRe strips CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// headerRe matches the board header: "postboard  12 of 30 posts" or "postboard  30 posts"
var headerRe = regexp.MustCompile(`postboard +(?:(\d+) of )?(\d+) posts`)

// Header is one rendering of the board header
type Header struct {
	Visible  int // equals Total when no search is active
	Total    int
	Filtered bool
}

// Board drives a postboard process attached to a pseudo terminal
type Board struct {
	t       *testing.T
	ptmx    *os.File
	cmd     *exec.Cmd
	exited  chan struct{}
	scratch string

	mu  sync.Mutex
	out []byte
}

// StartBoard launches postboard with args in a 120x40 terminal. Config and
// log file go to a scratch directory that is removed with the test. When the
// test fails, the tail of the screen is saved next to it.
func StartBoard(t *testing.T, args ...string) *Board {
	t.Helper()

	b := &Board{t: t, exited: make(chan struct{}), scratch: t.TempDir()}

	argv := append([]string{
		"--config", filepath.Join(b.scratch, "config.toml"),
		"--log-file", filepath.Join(b.scratch, "postboard.log"),
	}, args...)
	b.cmd = exec.Command(binPath, argv...)
	b.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+b.scratch,
	)

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("open pty: %v", err)
	}
	b.ptmx = ptmx
	b.cmd.Stdin, b.cmd.Stdout, b.cmd.Stderr = tty, tty, tty

	size := struct{ Row, Col, X, Y uint16 }{40, 120, 0, 0}
	syscall.Syscall(syscall.SYS_IOCTL, ptmx.Fd(), uintptr(syscall.TIOCSWINSZ), uintptr(unsafe.Pointer(&size)))

	if err := b.cmd.Start(); err != nil {
		ptmx.Close()
		tty.Close()
		t.Fatalf("start postboard: %v", err)
	}
	// The child holds its own copy of the tty
	tty.Close()

	go b.read()
	go func() {
		_ = b.cmd.Wait()
		close(b.exited)
	}()

	t.Cleanup(func() {
		if t.Failed() {
			b.saveScreen()
		}
		b.stop()
	})
	return b
}

func (b *Board) read() {
	chunk := make([]byte, 8192)
	for {
		n, err := b.ptmx.Read(chunk)
		if n > 0 {
			b.mu.Lock()
			b.out = append(b.out, chunk[:n]...)
			if over := len(b.out) - maxScrollback; over > 0 {
				b.out = b.out[over:]
			}
			b.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Press writes keys to the terminal
func (b *Board) Press(keys string) {
	b.t.Helper()
	if _, err := b.ptmx.Write([]byte(keys)); err != nil {
		b.t.Fatalf("write %q: %v", keys, err)
	}
}

// Search opens the search prompt and types query a key at a time
func (b *Board) Search(query string) {
	b.t.Helper()
	b.Press(KeySearch)
	for _, r := range query {
		b.Press(string(r))
		time.Sleep(10 * time.Millisecond)
	}
}

// Plain returns everything drawn so far with escape sequences removed
func (b *Board) Plain() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ansiRe.ReplaceAllString(string(b.out), "")
}

// LastHeader returns the most recently drawn header
func (b *Board) LastHeader() (Header, bool) {
	matches := headerRe.FindAllStringSubmatch(b.Plain(), -1)
	if len(matches) == 0 {
		return Header{}, false
	}
	last := matches[len(matches)-1]
	total, _ := strconv.Atoi(last[2])
	h := Header{Visible: total, Total: total}
	if last[1] != "" {
		h.Visible, _ = strconv.Atoi(last[1])
		h.Filtered = true
	}
	return h, true
}

// Await polls the screen until cond holds, failing the test with the screen
// tail after timeout
func (b *Board) Await(cond func(plain string) bool, timeout time.Duration, what string) {
	b.t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond(b.Plain()) {
		if time.Now().After(deadline) {
			b.t.Fatalf("timed out waiting for %s\n--- screen tail ---\n%s", what, b.tail(4096))
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// See waits for text to appear anywhere in the output
func (b *Board) See(text string) {
	b.t.Helper()
	b.Await(func(plain string) bool { return strings.Contains(plain, text) }, 3*time.Second, fmt.Sprintf("%q", text))
}

// AwaitHeader waits until the latest header satisfies cond
func (b *Board) AwaitHeader(cond func(Header) bool, what string) Header {
	b.t.Helper()
	var h Header
	b.Await(func(string) bool {
		var ok bool
		h, ok = b.LastHeader()
		return ok && cond(h)
	}, 3*time.Second, what)
	return h
}

// Exited reports whether the process ends within timeout
func (b *Board) Exited(timeout time.Duration) bool {
	select {
	case <-b.exited:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (b *Board) tail(n int) string {
	s := b.Plain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

func (b *Board) saveScreen() {
	path := filepath.Join(os.TempDir(), strings.ReplaceAll(b.t.Name(), "/", "_")+".screen.txt")
	if err := os.WriteFile(path, []byte(b.tail(16384)), 0644); err == nil {
		b.t.Logf("screen tail saved to %s", path)
	}
}

func (b *Board) stop() {
	// Closing the master hangs up the child's terminal
	_ = b.ptmx.Close()
	select {
	case <-b.exited:
	case <-time.After(2 * time.Second):
		_ = b.cmd.Process.Kill()
		<-b.exited
	}
}
