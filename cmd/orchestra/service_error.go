// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"orchestra-cli/internal/actions"
	"orchestra-cli/internal/dag"
	"orchestra-cli/internal/elfpatch"
	"orchestra-cli/internal/issue"
	"orchestra-cli/internal/manifest"
	"orchestra-cli/internal/script"

	"github.com/mattn/go-isatty"
)

// renderError prints err followed by the help entry of the issue it maps to.
func renderError(w io.Writer, err error, verbose bool) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	id := issueFor(err)
	if id == 0 {
		return
	}
	if entry := issue.Get(id); entry != nil {
		rendered, renderErr := entry.Render(glamourStyle(w))
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// formatErrorForDisplay uses the suggestions of an ActionableError when err
// carries one. In verbose mode the full error chain is included.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// issueFor maps err to a catalog entry, or 0 when none applies.
func issueFor(err error) issue.Id {
	if entry := issue.IssueOf(err); entry != nil {
		return entry.Id()
	}

	var cycle *dag.CycleError
	switch {
	case errors.As(err, &cycle):
		return issue.DependencyCycleId
	case errors.Is(err, script.ErrScriptFailed):
		return issue.ScriptExecutionFailedId
	case errors.Is(err, manifest.ErrMalformed):
		return issue.ManifestMalformedId
	case errors.Is(err, elfpatch.ErrReplacementTooLong):
		return issue.RPathTooLongId
	case errors.Is(err, actions.ErrNotInstalled):
		return issue.NotInstalledId
	default:
		return 0
	}
}

// glamourStyle picks a colored style for terminals and plain text otherwise.
func glamourStyle(w io.Writer) string {
	if isTerminal(w) {
		return "dark"
	}
	return "notty"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
