// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

// Ids of the catalog entries.
const (
	ConfigLoadFailedId Id = iota + 1
	ComponentNotFoundId
	DependencyCycleId
	ScriptExecutionFailedId
	ManifestMalformedId
	RPathTooLongId
	NotInstalledId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the markdown body of a catalog entry.
	MarkdownMsg string

	// Issue is a catalog entry with help text for a class of failures.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

orchestra reads the first file it finds among:
1. the path given with ` + "`--config`" + `
2. ` + "`$XDG_CONFIG_HOME/orchestra/config.cue`" + `
3. ` + "`./orchestra.cue`" + `

## Things you can try:
- Check the file for CUE syntax errors at the reported position
- Dump the effective configuration:
~~~
$ orchestra dumpconfig
~~~

## Example configuration:
~~~cue
paths: orchestra_root: "/opt/orchestra"
remotes: origin: "https://git.example.com/orchestra"
components: zlib: builds: default: {
	configure: "cd $BUILD_DIR && $SOURCE_DIR/configure --prefix=$ORCHESTRA_ROOT"
	install:   "cd $BUILD_DIR && make && make install"
}
~~~`,
	}

	componentNotFoundIssue = &Issue{
		id: ComponentNotFoundId,
		mdMsg: `
# Component not found!

Components are referenced as ` + "`component`" + ` (its default build) or
` + "`component~build`" + `.

## Things you can try:
- List the known components and their builds:
~~~
$ orchestra components
~~~
- Check the spelling of the build name after ` + "`~`",
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The ` + "`dependencies`" + ` and ` + "`build_dependencies`" + ` of your builds form a
cycle, so no installation order exists.

## Things you can try:
- Render the plan to spot the loop:
~~~
$ orchestra graph <component>
~~~
- Move one of the edges into a separate build of the component`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

A clone, configure or install script exited with a non-zero status.
Scripts run with ` + "`set -e`" + `, so the first failing command aborts them.

## Things you can try:
- Re-run with the script output visible:
~~~
$ orchestra install --show-output <component>
~~~
- Open a shell with the build environment:
~~~
$ orchestra shell <component>
~~~`,
	}

	manifestMalformedIssue = &Issue{
		id: ManifestMalformedId,
		mdMsg: `
# Installed-files manifest is damaged!

The first line of a manifest must be ` + "`component~build`" + `, followed by one
root-relative path per line.

## Things you can try:
- Inspect the file reported above and restore its first line
- If the component is not actually installed, delete the manifest`,
	}

	rpathTooLongIssue = &Issue{
		id: RPathTooLongId,
		mdMsg: `
# Run-time search path does not fit!

Relocating a binary rewrites its search path in place, so the new path must
not be longer than the one the component was linked with.

## Things you can try:
- Link with the configured ` + "`options.rpath_placeholder`" + ` as run-time path,
  which leaves room for the rewrite`,
	}

	notInstalledIssue = &Issue{
		id: NotInstalledId,
		mdMsg: `
# Component is not installed!

## Things you can try:
- List installed components:
~~~
$ orchestra components --installed
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		componentNotFoundIssue.Id():     componentNotFoundIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		manifestMalformedIssue.Id():     manifestMalformedIssue,
		rpathTooLongIssue.Id():          rpathTooLongIssue,
		notInstalledIssue.Id():          notInstalledIssue,
	}
)

// Id returns the entry's identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the entry for a terminal using the named glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
