package console

// Package console implements the interactive audio and video download flows
// of the command line tool. All output goes to an io.Writer and all input is
// read from an io.Reader so the flows can run against buffers.
