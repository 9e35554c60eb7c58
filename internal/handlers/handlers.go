package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

func SendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	if _, err := SendJSON(w, status, v); err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func sendErrorOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, e error) {
	sendJSONOrLog(w, log, status, wrapError(e))
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

type StatusHandler struct {
	log   logrus.FieldLogger
	games func() int
}

func NewStatusHandler(log logrus.FieldLogger, games func() int) *StatusHandler {
	return &StatusHandler{log: log, games: games}
}

func (s StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, s.log, http.StatusOK, map[string]any{
		"status": "ok",
		"games":  s.games(),
	})
}
