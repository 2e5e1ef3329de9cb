package patcher

// StepStatus is the outcome of one patching step.
type StepStatus string

const (
	// StatusPatched means the file was rewritten (or would be, in a dry run).
	StatusPatched StepStatus = "patched"
	// StatusSkipped means an optional file was absent.
	StatusSkipped StepStatus = "skipped"
)

// StepResult describes what a single step did.
type StepResult struct {
	// Name identifies the step (manifest, toolchain, app-config, build-file).
	Name string
	// Path is the absolute or root-joined path of the target file.
	Path string
	// Status tells whether the file was patched or skipped.
	Status StepStatus
	// Changed counts replaced lines, or members added for the manifest.
	Changed int
}

// Report summarizes a run.
type Report struct {
	// Version is the toolchain version that was written.
	Version string
	// DryRun is true when nothing was written to disk.
	DryRun bool
	// Steps are listed in execution order.
	Steps []StepResult
}

// Step returns the result with the given name.
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}

	return StepResult{}, false
}
