package console

import (
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

var yesNoConstraints = []string{No, Yes}

// Confirm asks a yes/no question; anything but an explicit yes is a no.
func Confirm(question string) (bool, error) {
	answer, err := Prompt(question, yesNoConstraints...)
	if err != nil {
		return false, err
	}
	return answer == Yes, nil
}

// Prompt reads one line. When constraints are given the first one is the default and the
// answer is normalized to one of them.
func Prompt(question string, constraints ...string) (string, error) {
	rl, err := readline.New(promptLine(question, constraints))
	if err != nil {
		return "", err
	}
	defer func() { _ = rl.Close() }()
	response, err := rl.Readline()
	if err != nil {
		return "", err
	}
	if len(constraints) == 0 {
		return response, nil
	}
	return matchConstraint(response, constraints), nil
}

func promptLine(question string, constraints []string) string {
	if len(constraints) == 0 {
		return question
	}
	var prompt strings.Builder
	prompt.WriteString(question)
	prompt.WriteString(" [")
	prompt.WriteString(strings.ToUpper(constraints[0]))
	for i := 1; i < len(constraints); i++ {
		prompt.WriteString("/")
		prompt.WriteString(constraints[i])
	}
	prompt.WriteString("]: ")
	return prompt.String()
}

func matchConstraint(response string, constraints []string) string {
	normalized := strings.ToLower(strings.TrimSpace(response))
	for _, c := range constraints {
		if normalized == c {
			return normalized
		}
	}
	// no input or no constraint matched, return default
	return constraints[0]
}
