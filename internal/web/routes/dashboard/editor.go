package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/fetch"
	"github.com/matt-dz/savorystories/internal/flash"
	"github.com/matt-dz/savorystories/internal/form"
	"github.com/matt-dz/savorystories/internal/model"
	"github.com/matt-dz/savorystories/internal/publish"
	webError "github.com/matt-dz/savorystories/internal/web/error"
	"github.com/matt-dz/savorystories/internal/web/routes/content"
	"github.com/matt-dz/savorystories/internal/web/view"
)

type messages struct {
	created      string
	createFailed string
	updated      string
	updateFailed string
	noImage      string
}

// Editor serves the create and edit forms of one kind. F is the form
// struct the posted fields decode into.
type Editor[T model.Item, In any, F any] struct {
	kind      content.Kind[T, In]
	page      string
	newPath   string
	editPath  string
	newTitle  string
	editTitle string
	msgs      messages

	blank     func() F
	fromModel func(T) F
	input     func(F) In
	image     func(T) string
	data      func(f F, errs form.Errors, editing bool, action, image string) any
}

var Recipes = Editor[model.Recipe, model.RecipeInput, form.Recipe]{
	kind:      content.Recipes,
	page:      "recipe_form",
	newPath:   view.DashboardPath + "/new-recipe",
	editPath:  view.DashboardPath + "/edit-recipe/",
	newTitle:  "New recipe",
	editTitle: "Edit recipe",
	msgs: messages{
		created:      "New Recipe is created!",
		createFailed: "Failed to create new recipe",
		updated:      "Recipe updated successfully!",
		updateFailed: "Failed to update recipe",
		noImage:      "Recipe saved, but the image could not be uploaded",
	},
	blank:     form.NewRecipe,
	fromModel: form.RecipeFromModel,
	input:     form.Recipe.Input,
	image:     func(r model.Recipe) string { return r.Image },
	data: func(f form.Recipe, errs form.Errors, editing bool, action, image string) any {
		return view.RecipeForm{Form: f, Errors: errs, Editing: editing, Action: action, Image: image}
	},
}

var Blogs = Editor[model.Blog, model.BlogInput, form.Blog]{
	kind:      content.Blogs,
	page:      "blog_form",
	newPath:   view.DashboardPath + "/new-blog",
	editPath:  view.DashboardPath + "/edit-blog/",
	newTitle:  "New blog post",
	editTitle: "Edit blog post",
	msgs: messages{
		created:      "Blog post published successfully!",
		createFailed: "Failed to publish blog post",
		updated:      "Blog post updated successfully!",
		updateFailed: "Failed to update blog post",
		noImage:      "Blog post saved, but the featured image could not be uploaded",
	},
	blank:     func() form.Blog { return form.Blog{} },
	fromModel: form.BlogFromModel,
	input:     form.Blog.Input,
	image:     func(b model.Blog) string { return b.FeaturedImage },
	data: func(f form.Blog, errs form.Errors, editing bool, action, image string) any {
		return view.BlogForm{Form: f, Errors: errs, Editing: editing, Action: action, Image: image}
	},
}

func (e Editor[T, In, F]) render(w http.ResponseWriter, r *http.Request, status int, f F, errs form.Errors, editing bool, image string) {
	title, action := e.newTitle, e.newPath
	if editing {
		title, action = e.editTitle, e.editPath+chi.URLParam(r, "slug")
	}
	view.Render(w, r, status, e.page, title, e.data(f, errs, editing, action, image))
}

// decode reads the posted form and its optional image. Image problems are
// reported as an error on the image field.
func (e Editor[T, In, F]) decode(w http.ResponseWriter, r *http.Request) (F, *backend.Upload, form.Errors) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	parseErr := form.ParseMultipart(w, r)
	f := e.blank()
	errs, err := form.Parse(r.Form, &f)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode form", slog.Any("error", err))
	}
	if errs == nil {
		errs = form.Errors{}
	}

	var upload *backend.Upload
	if parseErr != nil {
		errs["image"] = form.ImageMessage(parseErr)
	} else if upload, err = form.Image(r, "image"); err != nil {
		errs["image"] = form.ImageMessage(err)
	}
	return f, upload, errs
}

func (e Editor[T, In, F]) attach(upload *backend.Upload) func(context.Context, T) (T, error) {
	if upload == nil {
		return nil
	}
	return func(ctx context.Context, saved T) (T, error) {
		id, _, _ := model.Key(saved)
		return e.kind.Resource(ctx).UploadImage(ctx, id, *upload)
	}
}

// finish reports the outcome of a save. It returns false when the form has
// to be shown again.
func (e Editor[T, In, F]) finish(w http.ResponseWriter, r *http.Request, err error, success, failure string) bool {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	switch {
	case err == nil:
		e.kind.Invalidate(ctx)
		flash.Success(w, r, success)
	case errors.Is(err, publish.ErrImageNotAttached):
		e.kind.Invalidate(ctx)
		env.Logger.ErrorContext(ctx, "failed to attach image", slog.Any("error", err))
		flash.Warning(w, r, e.msgs.noImage)
	default:
		env.Logger.ErrorContext(ctx, "failed to save", slog.String("kind", e.kind.Name), slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, failure))
		return false
	}
	view.Redirect(w, r, view.DashboardPath)
	return true
}

func (e Editor[T, In, F]) HandleNew(w http.ResponseWriter, r *http.Request) {
	e.render(w, r, http.StatusOK, e.blank(), nil, false, "")
}

// HandleCreate saves a new item and then uploads its image. A failed upload
// keeps the item.
func (e Editor[T, In, F]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, upload, errs := e.decode(w, r)
	if errs.Any() {
		e.render(w, r, http.StatusUnprocessableEntity, f, errs, false, "")
		return
	}

	env.EnvFromCtx(ctx).Logger.DebugContext(ctx, "creating", slog.String("kind", e.kind.Name))
	res := e.kind.Resource(ctx)
	_, err := publish.WithImage(ctx, func(ctx context.Context) (T, error) {
		return res.Create(ctx, e.input(f))
	}, e.attach(upload))
	if err != nil && !errors.Is(err, publish.ErrImageNotAttached) && view.Unauthorized(w, r, err) {
		return
	}
	if !e.finish(w, r, err, e.msgs.created, e.msgs.createFailed) {
		e.render(w, r, http.StatusBadRequest, f, nil, false, "")
	}
}

// existing resolves the item named by the slug in the path, rendering the
// not-found or error page when it cannot.
func (e Editor[T, In, F]) existing(w http.ResponseWriter, r *http.Request) (T, bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	res := e.kind.Get(ctx, chi.URLParam(r, "slug"))
	switch res.State {
	case fetch.StatePresent:
		return res.Value, true
	case fetch.StateNotFound, fetch.StateLoading:
		view.RenderNotFound(w, r, e.kind.NotFound)
	default:
		if view.Unauthorized(w, r, res.Err) {
			break
		}
		env.Logger.ErrorContext(ctx, "failed to load item", slog.Any("error", res.Err))
		webError.Render(w, r, webError.BackendUnavailable)
	}
	var zero T
	return zero, false
}

// HandleEdit renders the edit form prefilled with the stored item.
func (e Editor[T, In, F]) HandleEdit(w http.ResponseWriter, r *http.Request) {
	item, ok := e.existing(w, r)
	if !ok {
		return
	}
	e.render(w, r, http.StatusOK, e.fromModel(item), nil, true, e.image(item))
}

// HandleUpdate resubmits the whole form and, when a new image was chosen,
// replaces the image afterwards.
func (e Editor[T, In, F]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item, ok := e.existing(w, r)
	if !ok {
		return
	}
	f, upload, errs := e.decode(w, r)
	if errs.Any() {
		e.render(w, r, http.StatusUnprocessableEntity, f, errs, true, e.image(item))
		return
	}

	id, _, _ := model.Key(item)
	env.EnvFromCtx(ctx).Logger.DebugContext(ctx, "updating", slog.String("kind", e.kind.Name), slog.String("id", id))
	res := e.kind.Resource(ctx)
	_, err := publish.WithImage(ctx, func(ctx context.Context) (T, error) {
		return res.Update(ctx, id, e.input(f))
	}, e.attach(upload))
	if err != nil && !errors.Is(err, publish.ErrImageNotAttached) && view.Unauthorized(w, r, err) {
		return
	}
	if !e.finish(w, r, err, e.msgs.updated, e.msgs.updateFailed) {
		e.render(w, r, http.StatusBadRequest, f, nil, true, e.image(item))
	}
}

// HandleDelete removes an item after the confirmation step on the page and
// invalidates every cached read of its kind.
func (e Editor[T, In, F]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	id := chi.URLParam(r, "id")

	env.Logger.DebugContext(ctx, "deleting", slog.String("kind", e.kind.Name), slog.String("id", id))
	msg, err := e.kind.Resource(ctx).Delete(ctx, id)
	if err != nil {
		if view.Unauthorized(w, r, err) {
			return
		}
		env.Logger.ErrorContext(ctx, "failed to delete", slog.Any("error", err))
		flash.Error(w, r, backend.Message(err, "Failed to delete"))
		view.Redirect(w, r, view.DashboardPath)
		return
	}

	e.kind.Invalidate(ctx)
	if msg == "" {
		msg = "Deleted successfully"
	}
	flash.Success(w, r, msg)
	view.Redirect(w, r, view.DashboardPath)
}
