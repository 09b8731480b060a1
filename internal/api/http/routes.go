package httpapi

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/seasonal-baseline/internal/climate"
	"github.com/i474232898/seasonal-baseline/internal/ingest"
	"github.com/i474232898/seasonal-baseline/internal/store"
	"github.com/i474232898/seasonal-baseline/internal/weather"
)

var validate = validator.New()

// maxReportedRowErrors caps the dropped-row details returned by an upload.
const maxReportedRowErrors = 100

// RegisterRoutes wires the HTTP handlers into the Fiber app. defaultWindow
// is the rolling-mean window used when a series request omits one.
func RegisterRoutes(app *fiber.App, service *weather.Service, defaultWindow int) {
	v1 := app.Group("/api/v1")

	v1.Post("/datasets", func(c *fiber.Ctx) error {
		name := c.Query("name")

		var src io.Reader
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			defer f.Close()
			src = f
			if name == "" {
				name = fh.Filename
			}
		} else {
			if len(c.Body()) == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "request body must contain a csv file")
			}
			src = bytes.NewReader(c.Body())
		}

		report, err := service.ImportCSV(name, src)
		if err != nil {
			return toHTTPError(err, fiber.StatusInternalServerError)
		}

		return c.Status(fiber.StatusCreated).JSON(newImportResponse(report))
	})

	v1.Get("/datasets", func(c *fiber.Ctx) error {
		datasets, err := service.Datasets()
		if err != nil {
			return toHTTPError(err, fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"datasets": datasets})
	})

	v1.Get("/datasets/:id", func(c *fiber.Ctx) error {
		ds, err := service.Dataset(c.Params("id"))
		if err != nil {
			return toHTTPError(err, fiber.StatusInternalServerError)
		}
		return c.JSON(ds)
	})

	v1.Get("/datasets/:id/cities", func(c *fiber.Ctx) error {
		cities, err := service.Cities(c.Params("id"))
		if err != nil {
			return toHTTPError(err, fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"cities": cities})
	})

	v1.Get("/datasets/:id/describe", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summary, err := service.Describe(c.Params("id"), q.City)
		if err != nil {
			return toHTTPError(err, fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{
			"city":    q.City,
			"summary": newSummaryResponse(summary),
		})
	})

	v1.Get("/datasets/:id/stats", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		baseline, err := service.Baseline(c.Params("id"), q.City)
		if err != nil {
			return toHTTPError(err, fiber.StatusInternalServerError)
		}
		if len(baseline) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no baseline available for "+q.City)
		}

		return c.JSON(fiber.Map{
			"city":    q.City,
			"seasons": newSeasonStatsResponse(baseline),
		})
	})

	v1.Get("/datasets/:id/series", func(c *fiber.Ctx) error {
		var req seriesQuery
		if err := req.bind(c, defaultWindow); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.Series(c.Params("id"), req.City, req.Window)
		if err != nil {
			return toHTTPError(err, fiber.StatusInternalServerError)
		}
		return c.JSON(newSeriesResponse(view, req.Layers))
	})

	v1.Get("/datasets/:id/live", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		check, err := service.CheckLive(c.UserContext(), c.Params("id"), q.City)
		if err != nil {
			// Anything unclassified on this path came from the provider.
			return toHTTPError(err, fiber.StatusBadGateway)
		}
		return c.JSON(fiber.Map{
			"reading": check.Reading,
			"verdict": check.Verdict,
			"message": check.Message(),
		})
	})

	v1.Get("/monitor/latest", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := service.LatestCheck(q.City)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no live checks recorded for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch live checks")
		}
		return c.JSON(rec)
	})

	v1.Get("/monitor/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.CheckHistory(req.City.City, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no live checks for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch live check history")
		}

		return c.JSON(fiber.Map{
			"city":    req.City.City,
			"from":    req.From,
			"to":      req.To,
			"records": records,
		})
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// toHTTPError maps domain errors to HTTP statuses, using fallback for
// anything unrecognised. Provider errors keep the provider's own text.
func toHTTPError(err error, fallback int) error {
	var perr *weather.ProviderError
	switch {
	case errors.As(err, &perr):
		return fiber.NewError(fiber.StatusBadGateway, perr.Message)
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "dataset not found")
	case errors.Is(err, climate.ErrNoBaselineForCity):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, climate.ErrMissingBaseline), errors.Is(err, climate.ErrInsufficientSamples):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, climate.ErrInvalidWindow), errors.Is(err, ingest.ErrMissingColumn):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrNoProvider):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fallback, err.Error())
	}
}

// cityQuery holds the city query parameter.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: c.Query("city")}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// seriesQuery holds query parameters for the series endpoint.
type seriesQuery struct {
	City   string `validate:"required"`
	Window int    `validate:"min=1,max=365"`
	Layers layers
}

func (s *seriesQuery) bind(c *fiber.Ctx, defaultWindow int) error {
	s.City = c.Query("city")
	s.Window = defaultWindow
	if w := c.Query("window"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return errors.New("window must be an integer")
		}
		s.Window = n
	}

	l, err := parseLayers(c.Query("layers"))
	if err != nil {
		return err
	}
	s.Layers = l
	return nil
}

// layers selects which series traces a response carries.
type layers struct {
	Raw       bool
	Smoothed  bool
	Anomalies bool
}

func parseLayers(s string) (layers, error) {
	if strings.TrimSpace(s) == "" {
		return layers{Raw: true, Smoothed: true, Anomalies: true}, nil
	}
	var l layers
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case "raw":
			l.Raw = true
		case "smoothed":
			l.Smoothed = true
		case "anomalies":
			l.Anomalies = true
		default:
			return layers{}, errors.New("layers must be a comma-separated subset of raw,smoothed,anomalies")
		}
	}
	return l, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	City cityQuery
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	q, err := parseCityQuery(c)
	if err != nil {
		return err
	}
	h.City = q

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
