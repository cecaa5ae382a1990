package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal seams, replaced in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// promptLine prints prompt to w and reads one trimmed line. A final line
// without a newline is accepted.
func promptLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if prompt != "" {
		if _, err := fmt.Fprint(w, prompt); err != nil {
			return "", err
		}
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// otherwise it reads a plain line so scripts can pipe one in.
func promptPassword(r *bufio.Reader, stdin io.Reader, w io.Writer) (string, error) {
	if f, ok := stdin.(*os.File); ok && isTerminal(int(f.Fd())) {
		if _, err := fmt.Fprint(w, "Password: "); err != nil {
			return "", err
		}
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return promptLine(r, w, "")
}
