package server

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rubiojr/fuelstops/internal/fuelstops"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("latlon", validLatLon); err != nil {
		panic(fmt.Sprintf("registering latlon validation: %v", err))
	}

	return v
}

// validLatLon accepts "lat,lon" with both parts finite and in range.
func validLatLon(fl validator.FieldLevel) bool {
	c, err := fuelstops.ParseCoordinate(fl.Field().String())
	if err != nil {
		return false
	}
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func formatValidationErrors(errs validator.ValidationErrors) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = formatValidationError(err)
	}
	return out
}

func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "latlon":
		return err.Field() + ` must be "latitude,longitude" in decimal degrees`
	case "gt":
		return err.Field() + " must be greater than " + err.Param()
	default:
		return err.Field() + " failed " + err.Tag() + " validation"
	}
}
