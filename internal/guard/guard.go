// Package guard protects a non-empty destination from being overwritten without consent.
package guard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/quantmind-br/see/internal/domain"
)

// Check classifies dest. Anything that is not a readable directory with at
// least one entry counts as empty; a non-directory path fails later, when
// extraction tries to create it.
func Check(dest string) domain.Occupancy {
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return domain.OccupancyEmpty
	}

	dir, err := os.Open(dest)
	if err != nil {
		return domain.OccupancyEmpty
	}
	defer dir.Close()

	if _, err := dir.Readdirnames(1); err != nil {
		// io.EOF for an empty directory, anything else is unreadable
		return domain.OccupancyEmpty
	}
	return domain.OccupancyOccupied
}

// Confirm asks before writing into an occupied dest unless force is set.
// It returns domain.ErrAborted when the user picks quit and
// domain.ErrCancelled when the prompt is dismissed.
func Confirm(ctx context.Context, dest string, prompter domain.Prompter, force bool) error {
	if force || Check(dest) == domain.OccupancyEmpty {
		return nil
	}

	prompt := fmt.Sprintf("Destination %s is not empty. Continue?", dest)
	choice, err := prompter.Choose(ctx, prompt, domain.OccupiedChoices())
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return domain.ErrCancelled
		}
		return err
	}

	switch choice {
	case domain.ChoiceOverwrite:
		return nil
	case domain.ChoiceQuit:
		return domain.ErrAborted
	default:
		return fmt.Errorf("%w: unexpected choice %q", domain.ErrCancelled, choice)
	}
}
