// Package resource bounds the concurrency and upload bandwidth of pipeline
// stages. A nil *Controller imposes no limits.
package resource
