package practice

import (
	"time"

	"github.com/abhisek/timestables/internal/progress"
)

// progressLoadedMsg is sent when the learner's progress has been loaded.
type progressLoadedMsg struct {
	Progress *progress.Progress
	Err      error
}

// answerSavedMsg is sent when an answer and the updated progress have
// been persisted.
type answerSavedMsg struct {
	Err error
}

// timerTickMsg is sent every second while a question is on screen.
type timerTickMsg time.Time
