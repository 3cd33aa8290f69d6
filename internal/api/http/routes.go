package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weatherview/internal/favorites"
	"github.com/i474232898/weatherview/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, session *weather.Session, favs *favorites.Store) {
	v1 := app.Group("/api/v1")

	v1.Get("/places", func(c *fiber.Ctx) error {
		q := searchQuery{Q: c.Query("q")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		places, err := session.Search(c.UserContext(), q.Q)
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(places)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		req, err := parsePlaceQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snap, err := session.Select(c.UserContext(), req.toPlace())
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(newWeatherResponse(snap, favs))
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		snap, ok := session.Current()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather loaded yet")
		}
		return c.JSON(newWeatherResponse(snap, favs))
	})

	v1.Post("/weather/retry", func(c *fiber.Ctx) error {
		snap, err := session.Retry(c.UserContext())
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(newWeatherResponse(snap, favs))
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		return c.JSON(favs.List())
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		req, err := parsePlaceBody(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		status := fiber.StatusOK
		if favs.Add(c.UserContext(), req.toPlace()) {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(favs.List())
	})

	v1.Post("/favorites/toggle", func(c *fiber.Ctx) error {
		req, err := parsePlaceBody(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		place := req.toPlace()
		isFavorite := favs.Toggle(c.UserContext(), place)
		return c.JSON(fiber.Map{
			"id":         place.ID(),
			"isFavorite": isFavorite,
		})
	})

	v1.Delete("/favorites/:id", func(c *fiber.Ctx) error {
		favs.Remove(c.UserContext(), c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	})
}

type weatherResponse struct {
	weather.WeatherSnapshot
	IsFavorite bool `json:"isFavorite"`
}

func newWeatherResponse(snap weather.WeatherSnapshot, favs *favorites.Store) weatherResponse {
	return weatherResponse{
		WeatherSnapshot: snap,
		IsFavorite:      favs.IsFavorite(snap.Place),
	}
}

// lookupError maps session failures to HTTP errors.
func lookupError(err error) error {
	switch {
	case errors.Is(err, weather.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrNoPlace), errors.Is(err, weather.ErrPlaceNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, "weather provider timed out")
	case weather.IsProviderError(err):
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

type searchQuery struct {
	Q string `validate:"required"`
}

// placeRequest identifies a place by coordinates; name and country are informational.
type placeRequest struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon     *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

func (r placeRequest) toPlace() weather.Place {
	return weather.Place{
		Name:    r.Name,
		Country: r.Country,
		Lat:     *r.Lat,
		Lon:     *r.Lon,
	}
}

func parsePlaceQuery(c *fiber.Ctx) (placeRequest, error) {
	req := placeRequest{
		Name:    c.Query("name"),
		Country: c.Query("country"),
	}

	if s := c.Query("lat"); s != "" {
		lat, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return req, errors.New("lat must be a number")
		}
		req.Lat = &lat
	}
	if s := c.Query("lon"); s != "" {
		lon, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return req, errors.New("lon must be a number")
		}
		req.Lon = &lon
	}

	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

func parsePlaceBody(c *fiber.Ctx) (placeRequest, error) {
	var req placeRequest
	if err := c.BodyParser(&req); err != nil {
		return req, err
	}
	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}
