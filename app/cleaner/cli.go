package cleaner

import (
	"context"
)

func runCommandLine(ctx context.Context, cleaner *Cleaner, opts *RunOptions) error {

	_, err := cleaner.Clean(ctx, opts.Input, opts.Output)
	return err
}
