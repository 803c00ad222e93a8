package foodies

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleShareForm(c echo.Context) error {
	return Render(c, a.Views.ShareForm(ShareFormState{}, CsrfToken(c)))
}

// handleShare is the form boundary of the share flow: it turns the multipart
// request into a MealForm, runs MealService.Share, and either redirects to the
// listing or re-renders the form with a message.
func (a *App) handleShare(c echo.Context) error {
	if !a.shareLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many submissions. Try again later.")
	}

	form := MealForm{
		Title:        c.FormValue("title"),
		Summary:      c.FormValue("summary"),
		Instructions: c.FormValue("instructions"),
		Creator:      c.FormValue("name"),
		CreatorEmail: c.FormValue("email"),
	}

	file, err := c.FormFile("image")
	switch {
	case err == nil:
		src, err := file.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		form.Image = &ImageUpload{Size: file.Size, Content: src}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return err
	}

	meal, err := a.Service.Share(c.Request().Context(), form)
	if err != nil {
		msg, ok := UserMessage(err)
		if !ok {
			return err
		}
		state := ShareFormState{Message: msg, Values: form}
		state.Values.Image = nil
		var verr *ValidationError
		if errors.As(err, &verr) {
			state.Fields = verr.Fields
		}
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.ShareForm(state, CsrfToken(c)))
	}

	if err := addFlash(c, "Meal shared: "+meal.Title); err != nil {
		c.Logger().Warnf("set flash: %v", err)
	}
	return c.Redirect(http.StatusSeeOther, "/meals/")
}
