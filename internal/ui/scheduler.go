package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// teaScheduler adapts the hover controller's delayed-hide contract onto
// bubbletea's message loop. Schedule arms the request; the update loop
// drains it into a tea.Tick command, and the tick message fires the
// callback if the request is still armed. Cancellation disarms, so a tick
// carrying a stale sequence is ignored.
type teaScheduler struct {
	seq      uint64
	armedSeq uint64
	armed    func()
	pending  *pendingHide
}

type pendingHide struct {
	seq   uint64
	delay time.Duration
}

// Schedule implements workspace.HideScheduler.
func (s *teaScheduler) Schedule(d time.Duration, fire func()) (cancel func()) {
	s.seq++
	seq := s.seq
	s.pending = &pendingHide{seq: seq, delay: d}
	s.armedSeq = seq
	s.armed = fire
	return func() {
		if s.armedSeq == seq {
			s.armed = nil
		}
		if s.pending != nil && s.pending.seq == seq {
			s.pending = nil
		}
	}
}

// drain converts an armed request into a tea command, once.
func (s *teaScheduler) drain() tea.Cmd {
	p := s.pending
	if p == nil {
		return nil
	}
	s.pending = nil
	return tea.Tick(p.delay, func(time.Time) tea.Msg {
		return tooltipHideMsg{seq: p.seq}
	})
}

// fire runs the armed callback when the tick's sequence is still current.
func (s *teaScheduler) fire(msg tooltipHideMsg) {
	if msg.seq == s.armedSeq && s.armed != nil {
		f := s.armed
		s.armed = nil
		f()
	}
}
