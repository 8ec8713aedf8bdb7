package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

var ErrNoTerminal = errors.New("no terminal to prompt on")

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Password reads a password from stdin without echo. It fails when stdin is
// not a terminal, so scripts must use NICOLIVE_PASSWORD instead.
func Password(label string) (string, error) {
	if !Interactive() {
		return "", ErrNoTerminal
	}
	fd := os.Stdin.Fd()

	fmt.Fprint(os.Stderr, label)
	secret, err := term.ReadPassword(int(fd))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(secret), nil
}

// Line reads one line from r, trimmed.
func Line(w io.Writer, r io.Reader, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
