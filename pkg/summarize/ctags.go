package summarize

import (
	"context"

	"promptmaker/pkg/toolexec"
)

// ctagsArgs request a cross-reference listing with kind, line and scope fields.
var ctagsArgs = []string{
	"-x",
	"--fields=+KnS",
	"--output-format=xref",
	"--extras=+q",
}

// Ctags summarizes a file's symbols with Universal Ctags.
type Ctags struct {
	Runner *toolexec.Runner
}

// Summarize returns the xref listing for path, or "" when ctags is unavailable.
func (c Ctags) Summarize(ctx context.Context, path string) string {
	args := append(append([]string(nil), ctagsArgs...), path)
	out, err := runnerOrDefault(c.Runner).Run(ctx, "", "ctags", args...)
	if err != nil {
		return ""
	}
	return out
}

func runnerOrDefault(r *toolexec.Runner) *toolexec.Runner {
	if r == nil {
		return &toolexec.Runner{}
	}
	return r
}
