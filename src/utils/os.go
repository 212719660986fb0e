package utils

import (
	"bufio"
	"os"
	"strings"
)

// ReadLineFromStdin reads one line of operator input, without the trailing
// newline. Windows line endings are trimmed too.
func ReadLineFromStdin(output *string) error {
	reader := bufio.NewReader(os.Stdin)

	line, err := reader.ReadString('\n')
	if err != nil {
		*output = ""
		return err
	}

	*output = strings.TrimRight(line, "\r\n")
	return nil
}
