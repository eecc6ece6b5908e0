package prompt

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePrompter struct {
	mu      sync.Mutex
	answers map[string]bool
	err     error
	asked   []string
}

func (f *fakePrompter) Confirm(label string, _ bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, label)
	if f.err != nil {
		return false, f.err
	}
	return f.answers[label], nil
}

func TestHookApprover(t *testing.T) {
	p := &fakePrompter{answers: map[string]bool{`Run hook "npm install"?`: true}}
	approve := HookApprover(p)

	assert.True(t, approve("npm install"))
	assert.False(t, approve("rm -rf build"))
	assert.Equal(t, []string{`Run hook "npm install"?`, `Run hook "rm -rf build"?`}, p.asked)
}

func TestHookApprover_ErrorDeclines(t *testing.T) {
	approve := HookApprover(&fakePrompter{err: errors.New("not a terminal")})
	assert.False(t, approve("make"))
}

func TestHookApprover_Concurrent(t *testing.T) {
	p := &fakePrompter{answers: map[string]bool{}}
	approve := HookApprover(p)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			approve("echo hi")
		}()
	}
	wg.Wait()
	assert.Len(t, p.asked, 8)
}

func TestNewSurveyPrompter(t *testing.T) {
	var p Prompter = NewSurveyPrompter()
	assert.NotNil(t, p)
}
