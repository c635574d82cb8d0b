package cli

// RunWithIO runs the application with the given standard input and output
var RunWithIO = run
