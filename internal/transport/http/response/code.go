package response

// Error codes carried in the "code" field of every error body.
const (
	CodeValidation      = "validation_error"
	CodeDuplicateEmail  = "duplicate_email"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeReferential     = "referential_integrity"
	CodeConstraint      = "constraint_violation"
	CodeBodyTooLarge    = "body_too_large"
	CodeBusy            = "server_busy"
	CodeTimeout         = "timeout"
	CodeInternal        = "internal_error"
)

// CodeMsgMap holds the default message per code.
var CodeMsgMap = map[string]string{
	CodeValidation:      "validation failed",
	CodeDuplicateEmail:  "email already in use",
	CodeUnauthenticated: "authentication required",
	CodeForbidden:       "forbidden",
	CodeNotFound:        "not found",
	CodeReferential:     "referenced record does not exist",
	CodeConstraint:      "constraint violated",
	CodeBodyTooLarge:    "request body too large",
	CodeBusy:            "server busy",
	CodeTimeout:         "request timed out",
	CodeInternal:        "internal server error",
}
