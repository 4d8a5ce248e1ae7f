// Package jsonrpc declares JSON-RPC 2.0 methods on top of the rest pipeline.
//
// Arguments are bound and serialized exactly as for REST endpoints, then
// wrapped as the params of an envelope and posted:
//
//	var add = jsonrpc.MustDeclare[AddArgs, int]("calc.add", jsonrpc.Path("rpc"))
//
//	client := jsonrpc.NewClient(adapter)
//	sum, err := jsonrpc.MustBind(client, add).Call(ctx, AddArgs{A: 1, B: 2})
//
// The response must echo the request id and carry exactly one of result and
// error. An error object is returned as *Error; the result is then never
// decoded. Shape violations are MALFORMED_RESPONSE errors.
package jsonrpc
