// Package workflow sequences the download and ringtone steps. One Orchestrator
// owns the active job, gates each step on the previous step's file and turns
// every result into a model.Outcome with a status message.
package workflow
