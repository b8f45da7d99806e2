package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response standard response envelope
type Response struct {
	Code ResponseCode `json:"code"`
	Msg  string       `json:"msg"`
	Data interface{}  `json:"data,omitempty"`
}

// PageData paginated list payload
type PageData struct {
	List     interface{} `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Success returns a success envelope
func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeSuccess,
		Msg:  msg,
		Data: data,
	})
}

// SuccessPage returns a success envelope with a paginated list
func SuccessPage(c *gin.Context, msg string, list interface{}, total int64, page, pageSize int) {
	Success(c, msg, PageData{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Error returns a failure envelope. Auth codes keep their HTTP status so
// middleware aborts stay visible to proxies; other failures are an HTTP 200
// with the failure carried in the body code.
func Error(c *gin.Context, code ResponseCode, msg string) {
	c.JSON(httpStatus(code), Response{
		Code: code,
		Msg:  msg,
	})
}

// ErrorFrom returns a failure envelope derived from an error
func ErrorFrom(c *gin.Context, err error) {
	Error(c, GetErrorCode(err), GetErrorMessage(err))
}

func httpStatus(code ResponseCode) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusOK
	}
}
