package shellgen

// ActivationData fills the activation block template. Path is the
// fully composed new PATH value; Exports carry the manifest and
// resolver environment. Session is the serialized session token.
type ActivationData struct {
	Session string
	Path    string
	Exports []ExportVar
	Message string // printed to stderr, empty suppresses
}

var activationTemplate = mustTemplate("activation", `DEVENV_SESSION="@{.Session}@"; export DEVENV_SESSION
PATH="@{.Path}@"; export PATH
@{- range .Exports}@
@{.Name}@="@{.Value}@"; export @{.Name}@
@{- end}@
@{- if .Message}@
echo "@{.Message}@" >&2
@{- end}@
`)

// RenderActivation renders the shell block that publishes a project
// environment. The block is a fixed assignment list, so re-evaluating
// it is idempotent.
func RenderActivation(data ActivationData) (string, error) {
	return render(activationTemplate, data)
}

// RestoreVar restores one captured variable on deactivation.
type RestoreVar struct {
	Name  string
	Value string
	Unset bool
}

// DeactivationData fills the deactivation block template.
type DeactivationData struct {
	Path    string // original PATH to restore
	Restore []RestoreVar
	Message string
}

var deactivationTemplate = mustTemplate("deactivation", `PATH="@{.Path}@"; export PATH
@{- range .Restore}@
@{- if .Unset}@
unset @{.Name}@
@{- else}@
@{.Name}@="@{.Value}@"; export @{.Name}@
@{- end}@
@{- end}@
unset DEVENV_SESSION
@{- if .Message}@
echo "@{.Message}@" >&2
@{- end}@
`)

// RenderDeactivation renders the shell block that restores the
// pre-activation environment byte for byte.
func RenderDeactivation(data DeactivationData) (string, error) {
	return render(deactivationTemplate, data)
}
