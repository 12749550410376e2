// Package events lets services publish what happened to reminders and ticks
// without knowing who listens. The metrics package is the main subscriber.
package events
