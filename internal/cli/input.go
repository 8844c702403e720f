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

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var errPasswordMismatch = errors.New("passwords do not match")

// GetPassword prints prompt to w and reads a password. On a terminal the
// input is not echoed; otherwise one line is read from reader so that
// passwords can be piped in.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

// GetNewPassword reads a new password. On a terminal it is asked for twice
// and both entries must match.
func GetNewPassword(reader *bufio.Reader, prompt string, w io.Writer) ([]byte, error) {
	pw, err := GetPassword(reader, prompt, w)
	if err != nil {
		return nil, err
	}
	if !isTerminal(int(os.Stdin.Fd())) {
		return pw, nil
	}

	again, err := GetPassword(reader, "Repeat password: ", w)
	if err != nil {
		wipe(pw)
		return nil, err
	}
	defer wipe(again)

	if string(pw) != string(again) {
		wipe(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}
