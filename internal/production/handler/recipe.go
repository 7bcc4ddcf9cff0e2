package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/craftline/craftline-backend/internal/production/repository"
	"github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// RecipeHandler handles recipe and ingredient endpoints
type RecipeHandler struct {
	recipes     *repository.RecipeRepository
	ingredients *repository.IngredientRepository
	logger      *logger.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipes *repository.RecipeRepository, ingredients *repository.IngredientRepository, log *logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		ingredients: ingredients,
		logger:      log,
	}
}

// CreateRecipeRequest is the input shape for recipe creation
type CreateRecipeRequest struct {
	Name          string  `json:"name" validate:"required"`
	Code          string  `json:"code" validate:"required"`
	ProductID     *int    `json:"product_id"`
	Version       string  `json:"version"`
	YieldQuantity float64 `json:"yield_quantity" validate:"gte=0"`
	YieldUnit     string  `json:"yield_unit" validate:"required"`
	Status        string  `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// UpdateRecipeRequest is the partial input shape for recipe updates
type UpdateRecipeRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1"`
	Code          *string  `json:"code" validate:"omitempty,min=1"`
	ProductID     *int     `json:"product_id"`
	Version       *string  `json:"version" validate:"omitempty,min=1"`
	YieldQuantity *float64 `json:"yield_quantity" validate:"omitempty,gte=0"`
	YieldUnit     *string  `json:"yield_unit" validate:"omitempty,min=1"`
	Status        *string  `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// CreateIngredientRequest is the input shape for an ingredient line
type CreateIngredientRequest struct {
	MaterialID int     `json:"material_id" validate:"required"`
	Quantity   float64 `json:"quantity" validate:"required,gte=0"`
	Unit       string  `json:"unit" validate:"required"`
}

// UpdateIngredientRequest is the partial input shape for ingredient updates
type UpdateIngredientRequest struct {
	MaterialID *int     `json:"material_id"`
	Quantity   *float64 `json:"quantity" validate:"omitempty,gte=0"`
	Unit       *string  `json:"unit" validate:"omitempty,min=1"`
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	recipe, err := h.recipes.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, recipe)
}

// GetIngredients returns a recipe's ingredient lines
func (h *RecipeHandler) GetIngredients(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	ingredients, err := h.ingredients.ListByRecipe(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, ingredients)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecipeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	recipe := &repository.Recipe{
		Name:          req.Name,
		Code:          req.Code,
		ProductID:     req.ProductID,
		Version:       req.Version,
		YieldQuantity: req.YieldQuantity,
		YieldUnit:     req.YieldUnit,
		Status:        req.Status,
	}

	if err := h.recipes.Create(r.Context(), recipe); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdateRecipeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.RecipePatch{
		Name:          req.Name,
		Code:          req.Code,
		ProductID:     req.ProductID,
		Version:       req.Version,
		YieldQuantity: req.YieldQuantity,
		YieldUnit:     req.YieldUnit,
		Status:        req.Status,
	}

	if err := h.recipes.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.recipes.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}

// CreateIngredient adds an ingredient line to a recipe
func (h *RecipeHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req CreateIngredientRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	ingredient := &repository.RecipeIngredient{
		RecipeID:   recipeID,
		MaterialID: req.MaterialID,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
	}

	if err := h.ingredients.Create(r.Context(), ingredient); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, ingredient)
}

// UpdateIngredient patches an ingredient line
func (h *RecipeHandler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "ingredientID"))
	if err != nil {
		httputil.Error(w, errors.BadRequest("invalid id"))
		return
	}

	var req UpdateIngredientRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.IngredientPatch{
		MaterialID: req.MaterialID,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
	}

	if err := h.ingredients.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}

// DeleteIngredient removes an ingredient line
func (h *RecipeHandler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "ingredientID"))
	if err != nil {
		httputil.Error(w, errors.BadRequest("invalid id"))
		return
	}

	if err := h.ingredients.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, errors.BadRequest("invalid id")
	}
	return id, nil
}
