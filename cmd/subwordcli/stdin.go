package main

import (
	"io"
	"os"
	"strings"
)

func readAllTrimmed(r *os.File) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}
