// Package builtin provides the template functions available in checkers
// data files and variables.
//
// Available functions:
//   - uuid(): Random UUID v4
//   - now(layout?): Current time, RFC 3339 unless a Go layout is given
//   - timestamp(): Current Unix timestamp
//   - random(min, max): Random integer in [min, max]
//   - randomString(length): Random alphanumeric string
//   - base64(value): Base64 encoding of value
//   - upper(value), lower(value): Case conversion
//   - env(name, fallback?): Environment variable value
//
// Functions are invoked with the {{$name(args)}} syntax.
package builtin
