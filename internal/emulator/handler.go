package emulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"hivemind-service/internal/adapters/vehicle"
	"hivemind-service/internal/domain"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Handler serves the vehicle side of the control protocol for c.
func Handler(c *Car) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/command", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseForm(); err != nil {
			http.Error(w, "invalid form body", http.StatusBadRequest)
			return
		}

		cmd, err := domain.ParseCommand(req.PostForm)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := c.Apply(cmd); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, ErrWrongLicense) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}

		log.WithFields(log.Fields{
			"license": cmd.License,
			"command": cmd.Type,
			"speed":   cmd.Speed,
			"dir_x":   cmd.DirX,
			"dir_y":   cmd.DirY,
		}).Info("command applied")

		fmt.Fprint(w, "ok")
	}).Methods(http.MethodPost)

	r.HandleFunc("/position", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, vehicle.FormatPosition(c.Position()))
	}).Methods(http.MethodGet)

	r.HandleFunc("/status", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(c.Status()); err != nil {
			log.WithError(err).Warn("encode status failed")
		}
	}).Methods(http.MethodGet)

	return r
}
