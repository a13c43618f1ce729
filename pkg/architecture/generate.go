package architecture

import (
	"context"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/codebase"
)

// Generate runs every stage on root and returns the finished tree.
// Callers that report progress per stage run the stages themselves.
func Generate(ctx context.Context, root *codebase.Folder, opts BuildOptions) (*artifact.Tree, error) {
	arch, err := Build(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	arch.ResolveReferences()
	Analyze(arch.Tree)
	Aggregate(arch.Tree)
	Sort(arch.Tree)
	return arch.Tree, nil
}
