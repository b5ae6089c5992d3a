package tui

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
)

// ErrInteractiveDisabled is returned when interactive prompts are disabled via GRAFT_TEST_NO_INTERACTIVE
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts are disabled (GRAFT_TEST_NO_INTERACTIVE is set)")

// checkInteractiveAllowed returns an error if interactive mode is disabled for testing
func checkInteractiveAllowed() error {
	if os.Getenv("GRAFT_TEST_NO_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	return nil
}

// PromptConfirm asks the user a yes/no question and returns their answer.
// Returns an error if prompts are disabled, no terminal is attached, or the
// user cancels.
func PromptConfirm(message string, defaultYes bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}
	if !IsTTY() {
		return false, fmt.Errorf("cannot prompt for confirmation without a terminal")
	}

	prompt := &survey.Confirm{
		Message: message,
		Default: defaultYes,
	}
	var answer bool
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, fmt.Errorf("canceled")
	}
	return answer, nil
}
