// Package prompt asks the user interactive questions through survey.
package prompt

import (
	"fmt"
	"sync"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter abstracts the interactive questions scaffctl asks.
type Prompter interface {
	Confirm(label string, defaultValue bool) (bool, error)
}

// SurveyPrompter asks on the terminal.
type SurveyPrompter struct{}

func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

func (p *SurveyPrompter) Confirm(label string, defaultValue bool) (bool, error) {
	var value bool
	err := survey.AskOne(&survey.Confirm{
		Message: label,
		Default: defaultValue,
	}, &value)
	if err != nil {
		return false, err
	}
	return value, nil
}

// HookApprover returns an approval callback for shell hooks. Questions are
// serialized because hooks of different files run on separate workers. A
// prompt error (no terminal, Ctrl+C) declines the hook.
func HookApprover(p Prompter) func(cmd string) bool {
	var mu sync.Mutex
	return func(cmd string) bool {
		mu.Lock()
		defer mu.Unlock()
		ok, err := p.Confirm(fmt.Sprintf("Run hook %q?", cmd), false)
		return err == nil && ok
	}
}
