// Package validation checks call arguments against `validate` struct tags
// (go-playground/validator) before a request is assembled.
//
//	type CreateTodoArgs struct {
//	    Owner string `json:"owner" validate:"required"`
//	    Limit int    `json:"limit" validate:"min=1,max=100"`
//	}
//	err := validation.Validate(args) // INVALID_ARGUMENT on failure
//
// Field names in messages are json tag names.
package validation
