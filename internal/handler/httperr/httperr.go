package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the wire shape for every non-2xx body the API emits.
// Conflict payloads extend it with their own fields at the dto layer.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

func New(status int, msg string) Response {
	resp := Response{Status: status}
	resp.Error.Message = msg
	return resp
}

// Abort records the original error on the context for the logging
// middleware and writes resp as the final body.
func (resp Response) Abort(c *gin.Context, err error) {
	if err == nil {
		panic("httperr: err cannot be nil")
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}

// AbortWithError is the one-shot form used by handlers that have no
// extra detail to attach.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	resp := New(status, msg)
	resp.Detail = detail
	resp.Abort(c, err)
}
