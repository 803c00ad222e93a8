package foodies

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// homeMealCount is how many of the latest meals the home page shows.
const homeMealCount = 3

func (a *App) handleHome(c echo.Context) error {
	meals, err := a.Service.Meals(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(latest(meals, homeMealCount)))
}

func (a *App) handleMeals(c echo.Context) error {
	meals, err := a.Service.Meals(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Meals(meals, popFlash(c)))
}

func (a *App) handleMeal(c echo.Context) error {
	meal, found, err := a.Service.Meal(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	if !found {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	return Render(c, a.Views.Meal(meal))
}

func (a *App) handleFeed(c echo.Context) error {
	meals, err := a.Service.Meals(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, meals)
}

func handleMealsRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/meals/")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// latest returns the last n meals, newest first.
func latest(meals []Meal, n int) []Meal {
	if n > len(meals) {
		n = len(meals)
	}
	out := make([]Meal, 0, n)
	for i := len(meals) - 1; i >= len(meals)-n; i-- {
		out = append(out, meals[i])
	}
	return out
}
