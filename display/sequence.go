package display

import (
	"time"

	"github.com/gr-butler/agrokit/data"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

type State int

const (
	Idle State = iota
	ShowingSequence
	AnalysisDone
)

func (s State) String() string {
	switch s {
	case ShowingSequence:
		return "ShowingSequence"
	case AnalysisDone:
		return "AnalysisDone"
	}
	return "Idle"
}

// Sequence walks the reading screens one dwell at a time. Tick never blocks,
// Run drives Tick to completion by sleeping until each deadline.
type Sequence struct {
	screen        Screen
	dwell         time.Duration
	analysisDwell time.Duration

	state    State
	pages    []string
	index    int
	deadline time.Time
}

func NewSequence(screen Screen, dwell, analysisDwell time.Duration) *Sequence {
	return &Sequence{
		screen:        screen,
		dwell:         dwell,
		analysisDwell: analysisDwell,
	}
}

func (s *Sequence) State() State {
	return s.state
}

// Start shows the first reading screen. It is ignored unless Idle.
func (s *Sequence) Start(now time.Time, r data.SensorReading) {
	if s.state != Idle {
		return
	}
	s.pages = Pages(r)
	s.index = 0
	s.state = ShowingSequence
	s.show(ReadingRow, s.pages[0])
	s.deadline = now.Add(s.dwell)
}

// Remaining is the dwell left on the current screen.
func (s *Sequence) Remaining(now time.Time) time.Duration {
	if s.state == Idle || !now.Before(s.deadline) {
		return 0
	}
	return s.deadline.Sub(now)
}

// Tick advances at most one screen once the current dwell has elapsed.
func (s *Sequence) Tick(now time.Time) {
	if s.state == Idle || now.Before(s.deadline) {
		return
	}
	switch s.state {
	case ShowingSequence:
		s.index++
		if s.index < len(s.pages) {
			s.show(ReadingRow, s.pages[s.index])
			s.deadline = s.deadline.Add(s.dwell)
			return
		}
		s.state = AnalysisDone
		s.show(0, AnalysisText)
		s.deadline = s.deadline.Add(s.analysisDwell)
	case AnalysisDone:
		if err := s.screen.Clear(); err != nil {
			logger.Errorf("Display clear failed [%v]", err)
		}
		s.state = Idle
		s.pages = nil
	}
}

// Run plays the whole sequence for r and returns once the screen is cleared.
func (s *Sequence) Run(clock clockwork.Clock, r data.SensorReading) {
	s.Start(clock.Now(), r)
	for s.state != Idle {
		if d := s.Remaining(clock.Now()); d > 0 {
			clock.Sleep(d)
		}
		s.Tick(clock.Now())
	}
}

func (s *Sequence) show(y int, text string) {
	logger.Debugf("Display [%v]", text)
	if err := s.screen.Show(y, text); err != nil {
		logger.Errorf("Display write failed [%v]", err)
	}
}

// Splash shows the start up banner.
func Splash(screen Screen) {
	if err := screen.Show(0, SplashText); err != nil {
		logger.Errorf("Display write failed [%v]", err)
	}
}
