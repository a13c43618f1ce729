package architecture

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/codescape/pkg/artifact"
)

// DescribeOptions configures Describe.
type DescribeOptions struct {
	// MaxDepth limits how deep below the root artifacts are listed.
	// Zero means unlimited.
	MaxDepth int

	// Filter, when set, limits the listing to artifacts whose name or
	// descendants' names contain it.
	Filter func(*artifact.Artifact) bool
}

// Describe writes an indented listing of the tree with the metrics of each
// artifact, one artifact per line:
//
//	pkg  Folder  loc=120 in=0 out=1 cyclic=0.25
//	  lexer.go  File  loc=80 in=1 out=0 cyclic=1.00
//	    Scan  Method  loc=40 in=1 out=1 cycle=0
func Describe(w io.Writer, tree *artifact.Tree, opts DescribeOptions) error {
	bw := bufio.NewWriter(w)
	tree.Walk(tree.Root(), func(a *artifact.Artifact, depth int) bool {
		if opts.Filter != nil && !opts.Filter(a) {
			return false
		}
		describeOne(bw, a, depth)
		return opts.MaxDepth == 0 || depth < opts.MaxDepth
	})
	return bw.Flush()
}

func describeOne(w io.Writer, a *artifact.Artifact, depth int) {
	m := a.Metrics
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&b, "%s  %s  loc=%d", a.Name, a.KindName(), m.LinesOfCode)
	if !a.IsRoot() {
		fmt.Fprintf(&b, " in=%d out=%d", m.IncomingDependencies, m.OutgoingDependencies)
	}
	if a.PartCount() > 0 {
		fmt.Fprintf(&b, " cyclic=%.2f", m.CyclicPortion)
	}
	if i := m.CycleIndex(); i >= 0 {
		fmt.Fprintf(&b, " cycle=%d", i)
	}
	fmt.Fprintln(w, b.String())
}
