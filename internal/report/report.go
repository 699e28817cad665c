// Package report writes mapstress results to text, JSON Lines and SQLite
// sinks.
package report

import (
	"errors"
	"io"

	"github.com/llxisdsh/mapstress"
)

// Multi fans every result out to several sinks. All sinks see every
// result; errors are joined.
type Multi []mapstress.Sink

func (m Multi) Write(r mapstress.Result) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseOnly returns a sink that ignores results and closes c on Close.
// Placed last in a Multi, it closes the file the other sinks write to.
func CloseOnly(c io.Closer) mapstress.Sink {
	return closeOnly{c}
}

type closeOnly struct{ c io.Closer }

func (closeOnly) Write(mapstress.Result) error { return nil }
func (s closeOnly) Close() error               { return s.c.Close() }
