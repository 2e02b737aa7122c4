// Package config provides configuration structures and utilities for embedprobe.
// It defines the catalog source, probe timeouts, concurrency limits and output
// locations shared by every pipeline stage.
package config
