package shellgen

// ShadowedVars is the fixed list of sensitive environment variables
// every stub backs up before mutating and restores on exit.
var ShadowedVars = []string{
	"PATH",
	"LD_LIBRARY_PATH",
	"DYLD_FALLBACK_LIBRARY_PATH",
	"LIBRARY_PATH",
	"CPATH",
	"PKG_CONFIG_PATH",
	"XDG_DATA_DIRS",
	"MANPATH",
	"ACLOCAL_PATH",
	"SSL_CERT_FILE",
}

// ShadowName returns the stub-time backup variable for a shadowed
// variable. Export values reference the backup, never the live value
// the stub already mutated.
func ShadowName(name string) string {
	return "DEVENV_SHADOW_" + name
}

// StubData fills the binary stub template.
type StubData struct {
	Project string
	Version string
	Target  string // absolute path of the real store binary
	Shadow  []string
	Exports []ExportVar
}

var stubTemplate = mustTemplate("stub", `#!/bin/sh
# @{.Project}@@@{.Version}@ stub generated by devenv. Do not edit.
@{range .Shadow}@
DEVENV_SHADOW_@{.}@="${@{.}@-}"; export DEVENV_SHADOW_@{.}@
DEVENV_HAD_@{.}@="${@{.}@+set}"
@{- end}@

devenv_restore() {
@{- range .Shadow}@
    if [ -n "${DEVENV_HAD_@{.}@}" ]; then
        @{.}@="${DEVENV_SHADOW_@{.}@}"; export @{.}@
    else
        unset @{.}@
    fi
    unset DEVENV_SHADOW_@{.}@ DEVENV_HAD_@{.}@
@{- end}@
}
trap devenv_restore EXIT
@{range .Exports}@
@{.Name}@="@{.Value}@"; export @{.Name}@
@{- end}@

if [ ! -x "@{.Target}@" ]; then
    echo "devenv: missing store binary: @{.Target}@" >&2
    exit 127
fi

"@{.Target}@" "$@"
exit $?
`)

// RenderStub renders a binary isolation stub. The trap is installed
// before any export so the shadowed variables are restored on every
// exit path, including the missing-binary one. The real binary runs as
// a child rather than via exec so the trap actually fires.
func RenderStub(data StubData) (string, error) {
	if len(data.Shadow) == 0 {
		data.Shadow = ShadowedVars
	}
	return render(stubTemplate, data)
}
