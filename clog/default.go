package clog

// Log is the package-level logger the decoder writes through; the table
// package does not log. Disabled by default; callers (typically cmd/bufr)
// enable it with Log.LogMode(true).
var Log = NewLogger("bufr ")
