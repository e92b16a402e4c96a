// Package ingestion reads transaction records from the comma-separated
// dataset and hands them to one or more record sinks.
//
// Parsing is deliberately naive: lines are split on every comma and each
// field is trimmed of surrounding whitespace and double quotes. Quoted
// commas are not supported by the dataset.
//
// A Loader skips the header line and empty lines. Lines that fail to parse
// are logged and skipped without aborting the load.
package ingestion
