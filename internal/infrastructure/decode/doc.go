// Package decode turns dining API payloads of unknown shape into normalized
// domain records.
//
// Every logical field is resolved through an ordered list of named alias
// rules. A rule is a pure function over one JSON object and reports whether
// it produced a value; the first rule that does wins. When a payload does not
// match a known envelope, the decoder walks the whole JSON tree and probes
// every object found inside an array, so any recognizable record-shaped
// structure still yields data.
package decode
