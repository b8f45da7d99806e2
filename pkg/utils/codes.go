package utils

// ResponseCode business response code
type ResponseCode int

// Response codes carried in the {code, msg, data} envelope. 2000 is the only
// success code; 3000 means the request was fine but nothing changed.
const (
	CodeSuccess       ResponseCode = 2000
	CodeNoEffect      ResponseCode = 3000
	CodeInvalidParam  ResponseCode = 4001
	CodeConflict      ResponseCode = 4003
	CodeUnauthorized  ResponseCode = 4010
	CodeForbidden     ResponseCode = 4030
	CodeNotFound      ResponseCode = 4040
	CodeInternalError ResponseCode = 5000
	CodeDatabaseError ResponseCode = 5002
	CodeRedisError    ResponseCode = 5003
)

// IsSuccess check if the code denotes success
func (c ResponseCode) IsSuccess() bool {
	return c == CodeSuccess
}
