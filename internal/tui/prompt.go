package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/see/internal/domain"
)

// Ensure Prompter implements domain.Prompter
var _ domain.Prompter = (*Prompter)(nil)

// Prompter asks single-choice questions with a huh Select
type Prompter struct {
	accessible bool
	input      io.Reader
	output     io.Writer
	run        func(ctx context.Context, form *huh.Form) error
}

// PrompterOptions contains options for creating a Prompter
type PrompterOptions struct {
	Accessible bool
	Input      io.Reader // os.Stdin when nil
	Output     io.Writer // os.Stderr when nil
}

// NewPrompter creates a new Prompter
func NewPrompter(opts PrompterOptions) *Prompter {
	return &Prompter{
		accessible: opts.Accessible,
		input:      opts.Input,
		output:     opts.Output,
		run: func(ctx context.Context, form *huh.Form) error {
			return form.RunWithContext(ctx)
		},
	}
}

// Choose shows options and returns the selected one. The first option is
// preselected. Dismissing the prompt returns domain.ErrCancelled.
func (p *Prompter) Choose(ctx context.Context, prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to choose from")
	}

	choice := options[0]
	form := p.newForm(prompt, options, &choice)

	if err := p.run(ctx, form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) ||
			errors.Is(err, huh.ErrTimeout) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, io.EOF) {
			return "", domain.ErrCancelled
		}
		return "", err
	}

	return choice, nil
}

func (p *Prompter) newForm(prompt string, options []string, choice *string) *huh.Form {
	field := huh.NewSelect[string]().
		Key("choice").
		Title(prompt).
		Options(huh.NewOptions(options...)...).
		Value(choice)

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(Theme(p.accessible)).
		WithAccessible(p.accessible).
		WithShowHelp(false)

	if p.input != nil {
		form = form.WithInput(p.input)
	}
	if p.output != nil {
		form = form.WithOutput(p.output)
	}
	return form
}
