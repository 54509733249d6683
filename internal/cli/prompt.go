package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// readLine returns the first line of reader without its line ending.
func readLine(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readHiddenLine reads one line from a terminal with echo switched off.
func readHiddenLine(terminal *os.File) (string, error) {
	if terminal == nil {
		return "", errors.New("stdin unavailable")
	}
	restore, err := disableEcho(terminal)
	if err != nil {
		return "", fmt.Errorf("disable terminal echo: %w", err)
	}
	defer restore()
	return readLine(terminal)
}
