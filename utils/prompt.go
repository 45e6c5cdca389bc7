package utils

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// PromptConfirmer asks on the terminal
type PromptConfirmer struct{}

// Confirm returns false (and no error) when the operator answers no
func (PromptConfirmer) Confirm(question string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AutoConfirm answers every question with a fixed value
type AutoConfirm bool

func (a AutoConfirm) Confirm(string) (bool, error) {
	return bool(a), nil
}
