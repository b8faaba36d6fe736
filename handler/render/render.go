package render

import (
	"encoding/json"
	"net/http"
	"strconv"

	"twapvault/handler/codes"

	"github.com/sirupsen/logrus"
	"github.com/twitchtv/twirp"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(dataResponse{Data: v}); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(t)); err != nil {
		logrus.WithError(err).Errorln("render text")
	}
}

// Error write err as a twirp styled error response
func Error(w http.ResponseWriter, err error) {
	twerr := codes.From(err)

	code := codes.Get(twerr.Code())
	if v := twerr.Meta(codes.CustomCodeKey); v != "" {
		code, _ = strconv.Atoi(v)
	}

	resp := errorResponse{
		Code:      code,
		Msg:       string(twerr.Code()),
		Retryable: twerr.Meta(codes.RetryableKey) == "true",
	}

	if twerr.Code() != twirp.Internal || ResponseErrorMessageAsHint {
		resp.Hint = twerr.Msg()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(twirp.ServerHTTPStatusFromErrorCode(twerr.Code()))
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.WithError(err).Errorln("render error")
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.InvalidArgumentError("request", err.Error()))
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.NotFoundError(err.Error()))
}
