// scaffctl renders frontmatter-driven templates into a target tree,
// overwriting files or injecting snippets idempotently.
package main

import (
	"os"
	"time"

	"github.com/kjourdan1/scaffctl/cmd"
	"github.com/kjourdan1/scaffctl/internal/exitcode"
	"github.com/kjourdan1/scaffctl/internal/journal"
	"github.com/kjourdan1/scaffctl/internal/output"
)

func main() {
	start := time.Now()
	if err := cmd.Execute(); err != nil {
		code := exitcode.Of(err)
		event := journal.BuildEvent(os.Args, "failure", code, time.Since(start))
		_ = journal.Write(event)
		if !output.JSONWritten() {
			output.PrintError(err)
		}
		os.Exit(code)
	}

	event := journal.BuildEvent(os.Args, "success", exitcode.OK, time.Since(start))
	_ = journal.Write(event)
}
