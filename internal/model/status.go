package model

// TaskStatus represents the status of a workflow job
type TaskStatus string

const (
	// TaskStatusPending means the job was accepted but has not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusRunning means the external tool is running
	TaskStatusRunning TaskStatus = "Running"

	// TaskStatusCompleted means the job finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the job failed
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the job still occupies the workflow
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusPending || ts == TaskStatusRunning
}
