package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

const programTitle = "apint"

type titleOptions struct {
	File    string
	Backend string
	Extras  []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{programTitle}

	file := strings.TrimSpace(opts.File)
	if file != "" {
		parts = append(parts, filepath.Base(file))
	}

	extras := make([]string, 0, len(opts.Extras)+4)

	if strings.TrimSpace(version) != "" {
		extras = append(extras, fmt.Sprintf("v%s", strings.TrimSpace(version)))
	}

	if strings.TrimSpace(commit) != "" {
		extras = append(extras, fmt.Sprintf("commit %s", strings.TrimSpace(commit)))
	}

	if strings.TrimSpace(date) != "" {
		extras = append(extras, strings.TrimSpace(date))
	}

	backend := strings.TrimSpace(opts.Backend)
	if backend != "" && backend != "x11" {
		extras = append(extras, backend)
	}

	if len(opts.Extras) > 0 {
		extras = append(extras, opts.Extras...)
	}

	if len(extras) > 0 {
		parts = append(parts, extras...)
	}

	return strings.Join(parts, " - ")
}
