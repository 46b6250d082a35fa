package types

// EnvBackup records the pre-activation state of one environment
// variable so deactivation can restore or unset it exactly.
type EnvBackup struct {
	Value string `json:"value,omitempty"`
	Unset bool   `json:"unset,omitempty"`
}

// EnvironmentSession is the record of what must be undone to
// deactivate a project environment. At most one session exists per
// shell. OriginalPath and OriginalEnv are captured exactly once, at
// first activation, and are the only legal restoration target.
type EnvironmentSession struct {
	ProjectRoot   string               `json:"project_root"`
	InstallPrefix string               `json:"install_prefix"`
	OriginalPath  string               `json:"original_path"`
	OriginalEnv   map[string]EnvBackup `json:"original_env,omitempty"`
}

// Degraded reports whether the session is missing its project root,
// which happens when an older hook serialized a partial session. Such
// sessions can still be deactivated but cannot answer subtree queries.
func (s *EnvironmentSession) Degraded() bool {
	return s != nil && s.ProjectRoot == ""
}
