package form

import (
	"strconv"
	"strings"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/model"
)

type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

func (f Login) Credentials() backend.Credentials {
	return backend.Credentials{Email: strings.ToLower(f.Email), Password: f.Password}
}

type Signup struct {
	Name     string `form:"name" validate:"required,min=2"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,strongpassword" label:"Password"`
	Bio      string `form:"bio" validate:"max=500"`
}

func (f Signup) Registration() backend.Registration {
	return backend.Registration{
		Name:     f.Name,
		Email:    strings.ToLower(f.Email),
		Password: f.Password,
		Bio:      f.Bio,
	}
}

// Profile is the second signup step and the settings profile form.
type Profile struct {
	Name string `form:"name" validate:"required,min=2"`
	Bio  string `form:"bio" validate:"max=500" msg:"Bio must be under 500 characters"`
}

func (f Profile) Update() backend.ProfileUpdate {
	return backend.ProfileUpdate{Name: f.Name, Bio: f.Bio}
}

type Password struct {
	Current string `form:"currentPassword" validate:"required" msg:"Current password is required"`
	New     string `form:"newPassword" validate:"strongpassword" label:"Password"`
}

func (f Password) Change() backend.PasswordChange {
	return backend.PasswordChange{CurrentPassword: f.Current, NewPassword: f.New}
}

type Subscribe struct {
	Email string `form:"email" validate:"required,email"`
}

type Recipe struct {
	Title        string   `form:"title" validate:"required,min=3,max=120"`
	Description  string   `form:"description" validate:"required,min=10"`
	Ingredients  []string `form:"ingredients" validate:"min=1,dive,required" msg:"Add at least one ingredient"`
	Instructions []string `form:"instructions" validate:"min=1,dive,required" msg:"Add at least one step"`
	CookingTime  int      `form:"cookingTime" validate:"gte=0,lte=1440" label:"Cooking time"`
	Difficulty   string   `form:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Category     string   `form:"category" validate:"max=50"`
}

// NewRecipe returns the defaults of an empty recipe form.
func NewRecipe() Recipe {
	return Recipe{Difficulty: string(model.DifficultyMedium)}
}

func RecipeFromModel(r model.Recipe) Recipe {
	return Recipe{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CookingTime:  r.CookingTime,
		Difficulty:   string(r.Difficulty),
		Category:     r.Category,
	}
}

func (f Recipe) Input() model.RecipeInput {
	return model.RecipeInput{
		Title:        f.Title,
		Description:  f.Description,
		Ingredients:  f.Ingredients,
		Instructions: f.Instructions,
		CookingTime:  f.CookingTime,
		Difficulty:   model.Difficulty(f.Difficulty),
		Category:     f.Category,
	}
}

// IngredientsText joins the ingredients one per line for a textarea.
func (f Recipe) IngredientsText() string {
	return strings.Join(f.Ingredients, "\n")
}

// InstructionsText joins the steps one per line for a textarea.
func (f Recipe) InstructionsText() string {
	return strings.Join(f.Instructions, "\n")
}

// CookingTimeText is empty for zero so the input shows its placeholder.
func (f Recipe) CookingTimeText() string {
	if f.CookingTime == 0 {
		return ""
	}
	return strconv.Itoa(f.CookingTime)
}

type Blog struct {
	Title    string `form:"title" validate:"required,min=10"`
	Category string `form:"category" validate:"required,min=1" msg:"Category cannot be empty"`
	Excerpt  string `form:"excerpt" validate:"required,min=20" msg:"Excerpt should be at least 20 characters"`
	Content  string `form:"content" validate:"required,min=50" msg:"Content is too short. Share more details!"`
}

func BlogFromModel(b model.Blog) Blog {
	return Blog{
		Title:    b.Title,
		Category: b.Category,
		Excerpt:  b.Excerpt,
		Content:  b.Content,
	}
}

func (f Blog) Input() model.BlogInput {
	return model.BlogInput{
		Title:    f.Title,
		Category: f.Category,
		Excerpt:  f.Excerpt,
		Content:  f.Content,
	}
}
