// Package record holds raw input rows and the field extractor used by
// normalizers.
//
// A Record maps column names to raw string values. Records built from a
// tabular source are bound to that source's Header: extracting a column the
// header does not know is an implementation error (ErrUnknownColumn), while a
// known column with an empty value is simply missing data.
package record
