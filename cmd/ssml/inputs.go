package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const stdinName = "-"

// ErrInputsFailed is returned when at least one input could not be processed.
var ErrInputsFailed = errors.New("one or more inputs failed")

// transformFunc turns one input stream into one output document.
type transformFunc func(r io.Reader) (string, error)

// processInputs runs transform over every named input in order and writes
// each result to stdout on its own line. A failing input is reported and
// skipped; the remaining inputs are still processed.
func (a *app) processInputs(names []string, transform transformFunc) error {
	failed := 0

	for _, name := range names {
		err := a.processInput(name, transform)
		if err != nil {
			failed++

			a.log.Error("Failed to process %s: %v", name, err)
			fmt.Fprintf(a.stderr, "%s: %v\n", name, err)

			continue
		}

		a.log.Info("Processed %s", name)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInputsFailed, failed, len(names))
	}

	return nil
}

func (a *app) processInput(name string, transform transformFunc) (err error) {
	reader, closeInput, err := a.openInput(name)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := closeInput()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", name, closeErr)
		}
	}()

	output, err := transform(reader)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.stdout, output)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (a *app) openInput(name string) (io.Reader, func() error, error) {
	if name == stdinName {
		return a.stdin, func() error { return nil }, nil
	}

	file, err := os.Open(name) // #nosec G304 -- reading user-named inputs is the purpose of the command
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}

	return file, file.Close, nil
}
