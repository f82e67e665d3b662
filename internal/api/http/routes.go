package httpapi

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skywatch/weather-gateway/internal/history"
	"github.com/skywatch/weather-gateway/internal/scheduler"
	"github.com/skywatch/weather-gateway/internal/weather"
)

var validate = validator.New()

const historyUnavailableMessage = "Search history is temporarily unavailable. Please try again later."

// ErrorHandler renders every handler error as an {error} JSON envelope. It is
// installed as the app-level fiber error handler so unmatched routes and
// recovered panics use the same shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

// API holds the handler dependencies.
type API struct {
	weather *weather.Service
	history *history.Store
	probe   *scheduler.Scheduler
	logger  *zap.SugaredLogger
}

// New creates the API. probe may be nil when no upstream probe is running.
func New(weatherSvc *weather.Service, historyStore *history.Store, probe *scheduler.Scheduler, logger *zap.SugaredLogger) *API {
	return &API{
		weather: weatherSvc,
		history: historyStore,
		probe:   probe,
		logger:  logger,
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func (a *API) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	// The coords route must be registered before the :city route so
	// "coords" is never captured as a city name.
	api.Get("/weather/coords", a.lookupByCoordinates)
	api.Get("/weather/:city", a.lookupByName)

	api.Get("/history", a.listHistory)
	api.Post("/history", a.addHistory)
	api.Delete("/history/:name", a.removeHistory)

	app.Get("/health", a.health)
}

func (a *API) lookupByName(c *fiber.Ctx) error {
	name := c.Params("city")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	bundle, err := a.weather.LookupByName(c.UserContext(), name)
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(bundle)
}

func (a *API) lookupByCoordinates(c *fiber.Ctx) error {
	lat, lon, err := parseCoords(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	bundle, err := a.weather.LookupByCoordinates(c.UserContext(), lat, lon)
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(bundle)
}

// parseCoords rejects missing and non-numeric coordinates at the boundary;
// range checks belong to the service. A validator `required` tag is no use
// here: it would reject the valid zero coordinate.
func parseCoords(c *fiber.Ctx) (float64, float64, error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return 0, 0, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, errors.New("lon must be a number")
	}
	return lat, lon, nil
}

// fail maps a lookup failure to its HTTP response. Validation failures carry
// their detail back to the caller; everything else returns the category
// message while the raw detail goes to the log only.
func (a *API) fail(c *fiber.Ctx, err error) error {
	var le *weather.LookupError
	if errors.As(err, &le) && le.Kind == weather.KindValidation {
		a.logger.Infow("rejected lookup",
			requestIDKey, c.Locals(requestIDKey),
			"detail", le.Detail,
		)
		return fiber.NewError(fiber.StatusBadRequest, le.Detail)
	}

	fields := []any{
		requestIDKey, c.Locals(requestIDKey),
		"kind", string(weather.KindOf(err)),
		"error", err,
	}
	if le != nil {
		fields = append(fields, "status", le.Status, "detail", le.Detail, "body", string(le.Body))
	}
	a.logger.Errorw("lookup failed", fields...)

	return fiber.NewError(fiber.StatusInternalServerError, weather.Categorize(err).Message())
}

// historyAddRequest is the POST /api/history body.
type historyAddRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (a *API) listHistory(c *fiber.Ctx) error {
	names, err := a.history.List(c.UserContext())
	if err != nil {
		return a.failHistory(c, err)
	}
	return c.JSON(fiber.Map{"history": names})
}

func (a *API) addHistory(c *fiber.Ctx) error {
	var req historyAddRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "request body must be JSON with a name field")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "name is required and must be at most 100 characters")
	}

	names, err := a.history.Add(c.UserContext(), req.Name)
	if err != nil {
		return a.failHistory(c, err)
	}
	return c.JSON(fiber.Map{"history": names})
}

func (a *API) removeHistory(c *fiber.Ctx) error {
	name := c.Params("name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	names, err := a.history.Remove(c.UserContext(), name)
	if err != nil {
		return a.failHistory(c, err)
	}
	return c.JSON(fiber.Map{"history": names})
}

func (a *API) failHistory(c *fiber.Ctx, err error) error {
	a.logger.Errorw("history operation failed",
		requestIDKey, c.Locals(requestIDKey),
		"error", err,
	)
	return fiber.NewError(fiber.StatusInternalServerError, historyUnavailableMessage)
}

func (a *API) health(c *fiber.Ctx) error {
	st := scheduler.Status{Upstream: "unknown"}
	if a.probe != nil {
		st = a.probe.Status()
	}

	resp := fiber.Map{
		"status":   "ok",
		"service":  "weather-gateway",
		"upstream": st.Upstream,
	}
	if !st.LastChecked.IsZero() {
		resp["lastChecked"] = st.LastChecked
	}
	return c.JSON(resp)
}
