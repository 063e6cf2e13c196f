//go:build !cgo

package main

import "errors"

func runWindow(_ *editor, _ string, _ int) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
