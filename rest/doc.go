// Package rest turns typed endpoint declarations into callable methods.
//
// An endpoint is declared once, usually as a package-level variable, from an
// argument struct A, a result type R and a URL template:
//
//	type GetUserArgs struct {
//	    ID     int    `json:"id"`
//	    Fields string `json:"fields" default:"name,email"`
//	}
//
//	var getUser = rest.MustGet[GetUserArgs, User]("users/{id}")
//
// Placeholders consume arguments as path segments, the body parameter (POST,
// PUT and PATCH default to "body") is serialized as JSON, and every other
// argument becomes a query parameter. Binding the endpoint to a client
// yields a method:
//
//	client := rest.NewClient(httpclient.MustNew(cfg))
//	user, err := rest.MustBind(client, getUser).Call(ctx, GetUserArgs{ID: 7})
//
// Endpoints declared with Async must be bound with BindAsync on a client
// from NewAsyncClient; their calls return a Future.
//
// Every error is an *errors.APIError. Declaration defects surface from the
// verb helpers and Bind, argument defects before any I/O, and response
// failures are classified by status.
package rest
