// Package model defines the domain values shared across the app: job requests,
// operation kinds, task status and the explicit outcome of every operation.
// Values are small and copied freely between the workflow and the UI.
package model
