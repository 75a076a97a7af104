package prompts

import (
	"context"
	"fmt"
	"strings"
)

// Compose builds a system prompt for an oracle stage by combining the
// stage's tunable instructions with its immutable output specification.
func Compose(ctx context.Context, ps System, stage Stage) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	return sb.String(), nil
}
