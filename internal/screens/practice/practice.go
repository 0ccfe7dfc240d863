package practice

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timestables/internal/engine"
	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/router"
	"github.com/abhisek/timestables/internal/screen"
	"github.com/abhisek/timestables/internal/store"
	"github.com/abhisek/timestables/internal/ui/components"
	"github.com/abhisek/timestables/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
	phaseCorrection
	phaseQuitConfirm
	phaseError
)

const persistTimeout = 5 * time.Second

// PracticeScreen runs the review loop: present the neediest unlocked
// fact, grade the answer against the wall clock, persist, repeat.
// Progress is saved after every answer, so quitting never loses work.
type PracticeScreen struct {
	progressRepo store.ProgressRepo
	eventRepo    store.EventRepo
	userID       string

	prog    *progress.Progress
	current engine.Problem
	last    *engine.Problem
	input   components.TextInput

	phase         phase
	confirmReturn phase // phase to resume when quitting is declined
	questionStart time.Time
	elapsed       time.Duration

	// outcome of the answer being shown as feedback
	lastCorrect     bool
	lastGiven       int
	lastFact        engine.FactState
	unlockedTable   int // table that just opened, 0 when none
	correctionTries int
	saveErr         error

	// session tallies, reset each time the screen is pushed
	answered   int
	correctRun int
	bestRun    int
	correct    int

	errMsg string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatsProvider = (*PracticeScreen)(nil)

// New creates a practice screen for the given learner.
func New(progressRepo store.ProgressRepo, eventRepo store.EventRepo, userID string) *PracticeScreen {
	return &PracticeScreen{
		progressRepo: progressRepo,
		eventRepo:    eventRepo,
		userID:       userID,
		input:        components.NewTextInput("?", true, 3),
		phase:        phaseLoading,
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.loadProgress())
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

// HeaderStats feeds the header counters from the loaded progress.
func (s *PracticeScreen) HeaderStats() layout.HeaderStats {
	if s.prog == nil {
		return layout.HeaderStats{}
	}
	return layout.HeaderStats{
		Due:      s.prog.DueCount(time.Now()),
		Mastered: s.prog.MasteredCount(),
	}
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Check"},
			{Key: "Esc", Description: "End"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "Any key", Description: "Next question"},
			{Key: "Esc", Description: "End"},
		}
	case phaseCorrection:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Check"},
			{Key: "Esc", Description: "End"},
		}
	case phaseQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End practice"},
			{Key: "N", Description: "Keep going"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressLoadedMsg:
		if msg.Err != nil {
			s.phase = phaseError
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.prog = msg.Progress
		return s, s.nextQuestion()

	case answerSavedMsg:
		// Feedback is already on screen; just surface a failed save.
		s.saveErr = msg.Err
		return s, nil

	case timerTickMsg:
		if s.phase != phaseQuestion {
			return s, nil
		}
		s.elapsed = time.Since(s.questionStart)
		return s, tickCmd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseQuestion:
		switch msg.String() {
		case "esc", "q":
			s.confirmReturn = phaseQuestion
			s.phase = phaseQuitConfirm
			return s, nil
		case "enter":
			return s, s.submitAnswer()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseFeedback:
		if msg.String() == "esc" {
			s.confirmReturn = phaseFeedback
			s.phase = phaseQuitConfirm
			return s, nil
		}
		return s, s.nextQuestion()

	case phaseCorrection:
		switch msg.String() {
		case "esc", "q":
			s.confirmReturn = phaseCorrection
			s.phase = phaseQuitConfirm
			return s, nil
		case "enter":
			// Typing the right product is the ticket out. The retype is
			// not graded; the miss already counted.
			if given, err := s.input.NumericValue(); err == nil && given == s.current.Answer() {
				return s, s.nextQuestion()
			}
			s.correctionTries++
			s.input.Reset()
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseQuitConfirm:
		switch msg.String() {
		case "y", "Y", "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			// Back to where the learner was. The question clock keeps
			// running; thinking time is thinking time.
			s.phase = s.confirmReturn
			if s.phase == phaseQuestion {
				return s, tickCmd()
			}
			return s, nil
		}
		return s, nil

	case phaseError:
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	return s, nil
}

// loadProgress fetches the learner's saved state, seeding a fresh one
// on first run.
func (s *PracticeScreen) loadProgress() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		now := time.Now()
		prog, err := s.progressRepo.Load(ctx, s.userID)
		if errors.Is(err, store.ErrNotFound) {
			prog = progress.New(now)
			err = nil
		}
		if err != nil {
			return progressLoadedMsg{Err: err}
		}
		prog.InitializeMissing(now)
		return progressLoadedMsg{Progress: prog}
	}
}

// nextQuestion advances to the next fact and restarts the clock.
func (s *PracticeScreen) nextQuestion() tea.Cmd {
	s.current = s.prog.NextProblem(s.last, time.Now())
	s.input.Reset()
	s.questionStart = time.Now()
	s.elapsed = 0
	s.unlockedTable = 0
	s.correctionTries = 0
	s.saveErr = nil
	s.phase = phaseQuestion
	return tickCmd()
}

// submitAnswer grades the current input and applies it to the fact.
// Empty or unparseable input is ignored so Enter on a blank prompt does
// nothing.
func (s *PracticeScreen) submitAnswer() tea.Cmd {
	given, err := s.input.NumericValue()
	if err != nil {
		return nil
	}

	now := time.Now()
	elapsedSecs := time.Since(s.questionStart).Seconds()
	correct := given == s.current.Answer()

	before := s.prog.UnlockedCount
	fact, err := s.prog.RecordAnswer(s.current, correct, elapsedSecs, now)
	if err != nil {
		s.phase = phaseError
		s.errMsg = err.Error()
		return nil
	}

	s.lastCorrect = correct
	s.lastGiven = given
	s.lastFact = fact
	if s.prog.UnlockedCount > before {
		if table, ok := engine.NextTableToUnlock(before); ok {
			s.unlockedTable = table
		}
	}

	s.answered++
	if correct {
		s.correct++
		s.correctRun++
		if s.correctRun > s.bestRun {
			s.bestRun = s.correctRun
		}
	} else {
		s.correctRun = 0
	}

	prob := s.current
	s.last = &prob
	if correct {
		s.input.Submit(true)
		s.phase = phaseFeedback
	} else {
		// A miss is not dismissed with a keypress: the learner types the
		// right product to move on.
		s.input.Reset()
		s.correctionTries = 0
		s.phase = phaseCorrection
	}

	return s.persistAnswer(prob, given, correct, elapsedSecs, now)
}

// persistAnswer writes the updated progress blob and appends the answer
// to the history log.
func (s *PracticeScreen) persistAnswer(prob engine.Problem, given int, correct bool, elapsedSecs float64, now time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := s.progressRepo.Save(ctx, s.userID, s.prog, now); err != nil {
			return answerSavedMsg{Err: err}
		}
		// History is best-effort; a failed append must not block review.
		_ = s.eventRepo.Append(ctx, &store.AnswerEvent{
			UserID:          s.userID,
			A:               prob.A,
			B:               prob.B,
			Answer:          given,
			Correct:         correct,
			ResponseSeconds: elapsedSecs,
			CreatedAt:       now,
		})
		return answerSavedMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
