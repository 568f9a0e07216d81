package pipeline

import (
	"context"

	"github.com/kintree/kintree/pkg/family"
)

// Load resolves the record store for a pipeline run: the in-memory
// store when one was provided, otherwise the input file.
func Load(ctx context.Context, opts Options) (*family.Tree, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	if opts.Tree != nil {
		return opts.Tree, nil
	}

	opts.Logger.Debug("loading records", "path", opts.Input)
	return family.ImportFile(opts.Input)
}
