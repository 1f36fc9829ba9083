package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	maxNameLen  = 16
	defaultName = "Pilot"
)

// sanitizeName trims a pilot name, drops control characters and caps its
// length. Empty names become defaultName.
func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxNameLen {
		name = strings.TrimSpace(string(r[:maxNameLen]))
	}
	if name == "" {
		return defaultName
	}
	return name
}

// parseLimit parses a leaderboard limit query value. Empty means 0, which
// the database treats as its default.
func parseLimit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", s)
	}
	return n, nil
}
