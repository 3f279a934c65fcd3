// Package csvresponse turns tabular data into the status, headers and body of
// a CSV HTTP response. It does no I/O; callers hand the Response to their HTTP
// layer (see the responder package).
//
// Rows are positional ([]any, []string), named (Record, bson.D, string-keyed
// maps) or domain values implementing RowSerializer. When the first row is
// named its keys become the header line. Lines are joined with CRLF and the
// text is converted to the configured charset, WINDOWS-1252 by default.
//
// Cells are only escaped when quoting is enabled with WithQuoted. Unquoted
// output keeps delimiters and quotes found inside cells as-is.
//
//	resp, err := csvresponse.Build(rows,
//	    csvresponse.WithDelimiter(";"),
//	    csvresponse.WithQuoted(true),
//	    csvresponse.WithAttachment("report.csv"),
//	)
package csvresponse
