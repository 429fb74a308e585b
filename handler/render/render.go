package render

import (
	"encoding/json"
	"net/http"

	"dsc/core"
	"dsc/handler/codes"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

func write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render")
	}
}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	write(w, http.StatusOK, H{"data": v})
}

// Error write an engine error with its code
func Error(w http.ResponseWriter, err error) {
	if gorm.IsRecordNotFoundError(err) {
		NotFoundRequest(w, err)
		return
	}

	code := core.Code(err)
	write(w, codes.Status(code), H{"code": int(code), "msg": err.Error()})
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	write(w, http.StatusBadRequest, H{"code": codes.InvalidArguments, "msg": err.Error()})
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	write(w, http.StatusNotFound, H{"code": -1, "msg": err.Error()})
}

// Unauthorized missing calling account
func Unauthorized(w http.ResponseWriter) {
	write(w, http.StatusUnauthorized, H{"code": -1, "msg": "unauthorized"})
}

// Forbidden calling account not allowed
func Forbidden(w http.ResponseWriter) {
	write(w, http.StatusForbidden, H{"code": -1, "msg": "forbidden"})
}
