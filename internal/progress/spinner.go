// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package progress provides a CLI status spinner for long-running directory passes.
*/
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinChars = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner renders a single status line on stderr while work is in progress.
// When stderr is not a terminal, only new status text is printed, one line per
// update, so piped output stays readable.
type Spinner struct {
	statusLock  sync.Mutex
	status      string
	statusIsNew bool
	spinIndex   int
	ticker      *time.Ticker
	done        chan bool
	spinning    bool
}

// NewSpinner creates a stopped Spinner
func NewSpinner() *Spinner {
	return &Spinner{done: make(chan bool)}
}

// Start begins drawing the spinner
func (s *Spinner) Start(status string) {
	s.status = status
	s.statusIsNew = true
	s.draw(true)
	s.ticker = time.NewTicker(250 * time.Millisecond)
	s.spinning = true
	go s.onTick()
}

// Status replaces the spinner's status text
func (s *Spinner) Status(status string) {
	s.statusLock.Lock()
	defer s.statusLock.Unlock()
	if status != s.status {
		s.status = status
		s.statusIsNew = true
	}
}

// Finish stops the spinner, leaving the last status visible
func (s *Spinner) Finish() {
	if s.spinning {
		s.ticker.Stop()
		s.done <- true
		s.draw(false)
		s.spinning = false
	}
}

func (s *Spinner) onTick() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.draw(true)
		}
	}
}

func (s *Spinner) draw(goUp bool) {
	s.statusLock.Lock()
	defer s.statusLock.Unlock()
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	if !isTerminal && !s.statusIsNew {
		return
	}
	fmt.Fprintf(os.Stderr, "%s  %-60s\n", spinChars[s.spinIndex], s.status)
	s.statusIsNew = false
	s.spinIndex++
	if s.spinIndex >= len(spinChars) {
		s.spinIndex = 0
	}
	if goUp && isTerminal {
		fmt.Fprintf(os.Stderr, "\x1b[1A")
	}
}
