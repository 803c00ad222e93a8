package foodies

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
)

// reservedSlugs collide with fixed routes under /meals/.
var reservedSlugs = map[string]bool{
	"share": true,
}

// MealService holds the read and share paths over a MealStore. Handlers get
// it injected through the App; nothing here touches HTTP.
type MealService struct {
	store         MealStore
	images        *ImageStore
	cache         *MealCache
	logger        echo.Logger
	maxUploadSize int64
}

// NewMealService wires a MealService. maxUploadSize is in bytes; zero
// disables the size check.
func NewMealService(store MealStore, images *ImageStore, cache *MealCache, logger echo.Logger, maxUploadSize int64) *MealService {
	return &MealService{
		store:         store,
		images:        images,
		cache:         cache,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Meals returns every shared meal for the listing view.
func (s *MealService) Meals(ctx context.Context) ([]Meal, error) {
	return s.cache.ListMeals(ctx)
}

// Meal looks up a single meal. A missing slug is reported through found, not
// as an error.
func (s *MealService) Meal(ctx context.Context, slug string) (Meal, bool, error) {
	m, err := s.store.GetMeal(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return Meal{}, false, nil
	}
	if err != nil {
		return Meal{}, false, err
	}
	return m, true, nil
}

// Share validates form, stores its image, and inserts the new meal.
//
// Failures the user can fix come back as *ValidationError or an error
// wrapping ErrSlugExists; see UserMessage. The image write is not
// transactional with the insert, so a crash in between can orphan a file.
func (s *MealService) Share(ctx context.Context, form MealForm) (Meal, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return Meal{}, err
	}
	if s.maxUploadSize > 0 && form.Image.Size > s.maxUploadSize {
		return Meal{}, newFieldError("image", fmt.Sprintf("image is larger than %d MB", s.maxUploadSize>>20))
	}

	slug := Slugify(form.Title)
	if slug == "" {
		return Meal{}, newFieldError("title", "title must contain letters or digits")
	}
	if reservedSlugs[slug] {
		return Meal{}, newFieldError("title", "title is reserved, pick another")
	}

	// Fail before writing the file when the slug is already taken.
	if _, err := s.store.GetMeal(ctx, slug); err == nil {
		return Meal{}, &SlugConflictError{Slug: slug}
	} else if !errors.Is(err, ErrNotFound) {
		return Meal{}, err
	}

	meal := Meal{
		Slug:         slug,
		Title:        form.Title,
		Summary:      form.Summary,
		Instructions: SanitizeInstructions(form.Instructions),
		Creator:      form.Creator,
		CreatorEmail: form.CreatorEmail,
	}
	if meal.Instructions == "" {
		return Meal{}, newFieldError("instructions", "instructions are required")
	}

	imagePath, err := s.images.Save(slug, form.Image.Content)
	if errors.Is(err, ErrImageTooLarge) {
		return Meal{}, newFieldError("image", "image dimensions are too large")
	}
	if errors.Is(err, ErrInvalidImage) {
		return Meal{}, newFieldError("image", "file is not a supported image")
	}
	if err != nil {
		return Meal{}, fmt.Errorf("save image: %w", err)
	}
	meal.Image = imagePath

	if err := s.store.InsertMeal(ctx, meal); err != nil {
		if rmErr := s.images.Remove(imagePath); rmErr != nil {
			s.logger.Warnf("remove orphaned image %s: %v", imagePath, rmErr)
		}
		return Meal{}, err
	}

	s.cache.Invalidate()
	s.logger.Infof("meal shared: slug=%s creator=%s", meal.Slug, meal.Creator)
	return meal, nil
}
