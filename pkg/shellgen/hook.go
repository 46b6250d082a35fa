package shellgen

// HookData fills the shell hook template. Command is the devenv
// executable the hook invokes on every directory change.
type HookData struct {
	Command string
	Shell   string // "bash", "zsh" or anything else for plain POSIX
}

// The hook keeps its own re-entrancy guard: evaluating emitted shell
// text must never re-trigger the hook.
var hookTemplate = mustTemplate("hook", `# devenv shell hook. Source this from your shell rc file.
devenv_chpwd() {
    [ -n "${DEVENV_HOOK_RUNNING-}" ] && return 0
    DEVENV_HOOK_RUNNING=1
    eval "$("@{.Command}@" chpwd --cwd "$PWD")" || true
    unset DEVENV_HOOK_RUNNING
}
@{if eq .Shell "zsh"}@
typeset -ag chpwd_functions
if [[ -z "${chpwd_functions[(r)devenv_chpwd]+1}" ]]; then
    chpwd_functions=( "${chpwd_functions[@]}" devenv_chpwd )
fi
devenv_chpwd
@{else if eq .Shell "bash"}@
case ";${PROMPT_COMMAND-};" in
    *";devenv_chpwd;"*) ;;
    *) PROMPT_COMMAND="devenv_chpwd${PROMPT_COMMAND:+;$PROMPT_COMMAND}" ;;
esac
devenv_chpwd
@{else}@
cd() {
    command cd "$@" && devenv_chpwd
}
devenv_chpwd
@{end}@`)

// HookScript renders the shell hook for the given shell. Only the
// POSIX variant is validated with the sh parser; the zsh registration
// block uses zsh array syntax by necessity.
func HookScript(shell, command string) (string, error) {
	data := HookData{Command: QuoteDouble(command), Shell: shell}
	if shell == "zsh" {
		var out string
		var err error
		out, err = renderUnchecked(hookTemplate, data)
		return out, err
	}
	return render(hookTemplate, data)
}
