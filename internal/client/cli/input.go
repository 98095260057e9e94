package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func GetSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func GetPassword() (string, error) {
	fmt.Println("-Enter password")
	b, err := readPassword()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// GetMultiline reads lines until the first empty one.
func GetMultiline(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)

	var lines []string

	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			break
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}
