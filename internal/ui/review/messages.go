package review

import "github.com/abhisek/palabra/internal/learner"

// meaningMsg carries the looked-up meaning of a revealed word.
type meaningMsg struct {
	word    string
	meaning string
	err     error
}

// submittedMsg is sent once a graded review has been persisted.
type submittedMsg struct {
	outcome *learner.ReviewOutcome
	correct bool
	err     error
}
