package model

// Package model defines the transient data structures used across the app:
// download tasks, mux tasks, playlist entries, and status enums. Nothing here
// outlives a single request.
