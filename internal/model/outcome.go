package model

// FailureKind classifies why an operation did not succeed
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureInput means the request itself was unusable (e.g. empty URL)
	FailureInput
	// FailureBusy means another operation was still in flight
	FailureBusy
	// FailureToolMissing means the external executable could not be started
	FailureToolMissing
	// FailureExitCode means the external tool exited non-zero
	FailureExitCode
	// FailureOutputMissing means the tool succeeded but the expected file is absent
	FailureOutputMissing
)

// String returns a short name for logs
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureInput:
		return "input"
	case FailureBusy:
		return "busy"
	case FailureToolMissing:
		return "tool_missing"
	case FailureExitCode:
		return "exit_code"
	case FailureOutputMissing:
		return "output_missing"
	default:
		return "unknown"
	}
}

// Outcome is the explicit result of one operation. Message is always set and is
// what the status area shows.
type Outcome struct {
	JobID      string
	Operation  Operation
	Success    bool
	Kind       FailureKind
	Message    string
	OutputPath string
}

// Succeeded builds a successful outcome
func Succeeded(job *Job, message, outputPath string) Outcome {
	return Outcome{
		JobID:      jobID(job),
		Operation:  jobOp(job),
		Success:    true,
		Kind:       FailureNone,
		Message:    message,
		OutputPath: outputPath,
	}
}

// Failed builds a failed outcome of the given kind
func Failed(job *Job, kind FailureKind, message string) Outcome {
	return Outcome{
		JobID:     jobID(job),
		Operation: jobOp(job),
		Kind:      kind,
		Message:   message,
	}
}

func jobID(job *Job) string {
	if job == nil {
		return ""
	}
	return job.ID
}

func jobOp(job *Job) Operation {
	if job == nil {
		return ""
	}
	return job.Operation
}
