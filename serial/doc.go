// Package serial is the serialization façade between native Go values and
// JSON-compatible primitives.
//
// A Factory holds a registry of per-type converters and falls back to
// structural rules for primitives, pointers, sequences, string-keyed maps and
// structs. Clients keep three factories (request body, request args, response
// body); all of them usually point at Default.
//
//	f := serial.Default().Clone().TimeFormat("2006-01-02")
//	raw, err := f.Dump(args, reflect.TypeOf(args))
//	user, err := serial.LoadAs[User](f, raw)
package serial
