package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rubiojr/fuelstops/internal/fuelstops"
)

type fuelStopsRequest struct {
	StartCoords  string   `json:"start_coords" validate:"required,latlon"`
	FinishCoords string   `json:"finish_coords" validate:"required,latlon"`
	MaxRange     *float64 `json:"max_range_per_tank" validate:"omitempty,gt=0"`
}

type priceResponse struct {
	Region    string  `json:"region"`
	Matches   int     `json:"matches"`
	MeanPrice float64 `json:"mean_price"`
	TableMean float64 `json:"table_mean"`
}

type healthResponse struct {
	Status    string `json:"status"`
	PriceRows int    `json:"price_rows"`
}

func (s *Server) handleFuelStops(w http.ResponseWriter, r *http.Request) {
	var req fuelStopsRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, r, http.StatusBadRequest, "validation failed", formatValidationErrors(verrs)...)
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// Both strings were checked by the latlon validator.
	start, _ := fuelstops.ParseCoordinate(req.StartCoords)
	finish, _ := fuelstops.ParseCoordinate(req.FinishCoords)

	maxRange := s.opts.DefaultMaxRange
	if req.MaxRange != nil {
		maxRange = *req.MaxRange
	}

	result, err := s.planner.Plan(r.Context(), fuelstops.PlanRequest{
		Start:       start,
		Finish:      finish,
		StartInput:  req.StartCoords,
		FinishInput: req.FinishCoords,
		MaxRange:    maxRange,
	})
	switch {
	case errors.Is(err, fuelstops.ErrRouteUnavailable):
		writeError(w, r, http.StatusInternalServerError, "Failed to fetch route data")
		return
	case errors.Is(err, fuelstops.ErrInvalidRange):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Error("planning failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "gpx") {
		s.writeGPX(w, r, result)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) writeGPX(w http.ResponseWriter, r *http.Request, result *fuelstops.PlanningResult) {
	b, err := fuelstops.ToGPX(result)
	if err != nil {
		s.log.Error("error encoding gpx", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="fuel-stops.gpx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	if region == "" {
		writeError(w, r, http.StatusBadRequest, "region is required")
		return
	}

	resp := priceResponse{
		Region:    region,
		Matches:   s.prices.Matches(region),
		TableMean: s.prices.MeanPrice(),
	}
	if mean, ok := s.prices.MatchMean(region); ok {
		resp.MeanPrice = mean
	} else {
		resp.MeanPrice = resp.TableMean
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:    "ok",
		PriceRows: s.prices.Len(),
	})
}
