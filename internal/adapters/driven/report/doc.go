// Package report writes finished runs to plain files next to the input.
//
// Two sinks are provided. ResultsLog writes a summary header followed by one
// quoted CSV row per record. URLList writes one line per record with a mark
// and, for missing documents, the diagnostic.
package report
