package controller

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/web/entity"
	"github.com/quillpress/quillpress/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// bindJSON decodes the request body into form. Unknown fields and trailing
// data are rejected; an empty body leaves form at its zero value so the
// form's own validation reports the missing fields.
func bindJSON(c *gin.Context, form any) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return common.NewValidationError("invalid request body", map[string][]string{"body": {"is too large or unreadable"}})
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(form); err != nil {
		return common.NewValidationError("invalid request body", map[string][]string{"body": {err.Error()}})
	}
	if dec.More() {
		return common.NewValidationError("invalid request body", map[string][]string{"body": {"must be a single JSON object"}})
	}
	return nil
}

// statusOf maps an error kind onto its HTTP status.
func statusOf(kind common.ErrorKind) int {
	switch kind {
	case common.KindValidation:
		return http.StatusBadRequest
	case common.KindAuthentication:
		return http.StatusUnauthorized
	case common.KindForbidden:
		return http.StatusForbidden
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// jsonError writes err as an envelope. Errors without a kind are internal:
// their message is hidden and their detail only shown outside production.
func jsonError(c *gin.Context, err error, production bool) {
	var appErr *common.AppError
	if errors.As(err, &appErr) && appErr.Kind != common.KindInternal {
		c.AbortWithStatusJSON(statusOf(appErr.Kind), entity.Msg{Message: appErr.Msg, Errors: appErr.Fields})
		return
	}

	logger.Errorf("[%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	msg := entity.Msg{Message: "internal server error"}
	if !production {
		msg.Error = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, msg)
}

func jsonMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, entity.Msg{Message: msg})
}

// jsonObj writes msg with obj under key.
func jsonObj(c *gin.Context, status int, msg string, key string, obj any) {
	c.JSON(status, gin.H{"message": msg, key: obj})
}

// jsonList writes a page of items under key along with its pagination.
func jsonList(c *gin.Context, msg string, key string, items any, page entity.Page, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"message":    msg,
		"pagination": page.Result(total),
		key:          items,
	})
}

func pageOf(c *gin.Context) entity.Page {
	return entity.ParsePage(c.Query("page"), c.Query("limit"))
}
