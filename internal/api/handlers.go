package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	customerrors "github.com/axellelanca/creatorverse/internal/errors"
	"github.com/axellelanca/creatorverse/internal/forms"
	"github.com/axellelanca/creatorverse/internal/logging"
	"github.com/axellelanca/creatorverse/internal/models"
	"github.com/axellelanca/creatorverse/internal/services"
	"github.com/axellelanca/creatorverse/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// RecordStore is the store the pages write through; Ping backs /health.
type RecordStore interface {
	store.RecordStore
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators injected into the routes.
type Dependencies struct {
	Store    RecordStore
	Creators *services.CreatorService
	Metrics  *forms.Metrics
	Gatherer prometheus.Gatherer // exposed on /metrics when set
	Logger   zerolog.Logger
}

// NewRouter builds the gin engine with request logging, recovery, the HTML templates and every route.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	router := gin.New()
	router.Use(logging.GinLogger(deps.Logger), gin.Recovery())
	router.SetHTMLTemplate(tmpl)
	SetupRoutes(router, deps)
	return router, nil
}

// SetupRoutes configures all routes of the catalog.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheckHandler(deps.Store))
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Pages
	router.GET("/", ListPageHandler(deps))
	router.GET("/creator/:id", DetailPageHandler(deps))
	router.GET("/new", NewCreatorPageHandler())
	router.POST("/new", CreateCreatorHandler(deps))
	router.GET("/edit/:id", EditCreatorPageHandler(deps))
	router.POST("/edit/:id", UpdateCreatorHandler(deps))
	router.GET("/edit/:id/delete", DeleteCreatorPageHandler(deps))
	router.POST("/edit/:id/delete", DeleteCreatorHandler(deps))

	// Read-only JSON API
	api := router.Group("/api/v1")
	{
		api.GET("/creators", ListCreatorsHandler(deps.Creators))
		api.GET("/creators/:id", GetCreatorHandler(deps.Creators))
	}
}

// HealthCheckHandler reports whether the record store answers.
func HealthCheckHandler(s RecordStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// redirectNavigator records where a form wants to go; the handler turns it into a redirect.
type redirectNavigator struct {
	route string
}

func (n *redirectNavigator) GoTo(route string) { n.route = route }

func formDeps(c *gin.Context, deps Dependencies, nav forms.Navigator, confirm forms.Confirmer) forms.Deps {
	return forms.Deps{
		Store:     deps.Store,
		Navigator: nav,
		Confirmer: confirm,
		Logger:    deps.Logger.With().Str("path", c.Request.URL.Path).Logger(),
		Metrics:   deps.Metrics,
	}
}

// declineAll is used where a page never deletes.
var declineAll = forms.ConfirmerFunc(func(string) bool { return false })

// ListPageHandler renders the listing of every creator.
func ListPageHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		creators, err := deps.Creators.ListCreators(c.Request.Context())
		if err != nil {
			deps.Logger.Error().Err(err).Msg("error listing creators")
			c.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{"Title": "Error"})
			return
		}
		c.HTML(http.StatusOK, "list.tmpl", gin.H{"Title": "Creators", "Creators": creators})
	}
}

// DetailPageHandler renders one creator.
func DetailPageHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		creator, err := deps.Creators.GetCreator(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, customerrors.ErrCreatorNotFound) {
				c.HTML(http.StatusNotFound, "not_found.tmpl", gin.H{"Title": "Not found"})
				return
			}
			deps.Logger.Error().Err(err).Str("creator_id", c.Param("id")).Msg("error retrieving creator")
			c.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{"Title": "Error"})
			return
		}
		c.HTML(http.StatusOK, "detail.tmpl", gin.H{"Title": creator.Name, "Creator": creator})
	}
}

// NewCreatorPageHandler renders the empty creation form.
func NewCreatorPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderNewForm(c, http.StatusOK, forms.Fields{}, nil)
	}
}

// CreateCreatorHandler submits the creation form.
func CreateCreatorHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields forms.Fields
		if err := c.ShouldBind(&fields); err != nil {
			renderNewForm(c, http.StatusBadRequest, fields, nil)
			return
		}

		nav := &redirectNavigator{}
		form := forms.NewCreationForm(formDeps(c, deps, nav, declineAll))
		_, err := form.Submit(c.Request.Context(), fields)
		if nav.route != "" {
			c.Redirect(http.StatusSeeOther, nav.route)
			return
		}
		renderNewForm(c, statusFor(err), form.Fields(), form.FieldErrors())
	}
}

// EditCreatorPageHandler loads a creator into the edit form.
func EditCreatorPageHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		form := forms.NewEditForm(c.Param("id"), formDeps(c, deps, &redirectNavigator{}, declineAll))
		if err := form.Load(c.Request.Context()); err != nil {
			renderLoadError(c, form, err)
			return
		}
		renderEditForm(c, http.StatusOK, form)
	}
}

// UpdateCreatorHandler submits the edit form.
func UpdateCreatorHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		nav := &redirectNavigator{}
		form := forms.NewEditForm(c.Param("id"), formDeps(c, deps, nav, declineAll))
		if err := form.Load(c.Request.Context()); err != nil {
			renderLoadError(c, form, err)
			return
		}

		var fields forms.Fields
		if err := c.ShouldBind(&fields); err != nil {
			renderEditForm(c, http.StatusBadRequest, form)
			return
		}

		err := form.Submit(c.Request.Context(), fields)
		if nav.route != "" {
			c.Redirect(http.StatusSeeOther, nav.route)
			return
		}
		renderEditForm(c, statusFor(err), form)
	}
}

// DeleteCreatorPageHandler asks for confirmation before a delete.
func DeleteCreatorPageHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		form := forms.NewEditForm(c.Param("id"), formDeps(c, deps, &redirectNavigator{}, declineAll))
		if err := form.Load(c.Request.Context()); err != nil {
			renderLoadError(c, form, err)
			return
		}
		c.HTML(http.StatusOK, "delete.tmpl", gin.H{
			"Title":    "Delete Creator",
			"ID":       form.ID(),
			"Fields":   form.Fields(),
			"Question": forms.DeleteConfirmMessage,
		})
	}
}

// DeleteCreatorHandler receives the answer of the confirmation page.
// Only confirm=yes deletes; any other answer returns to the edit form.
func DeleteCreatorHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		nav := &redirectNavigator{}
		answer := forms.ConfirmerFunc(func(string) bool { return c.PostForm("confirm") == "yes" })
		form := forms.NewEditForm(c.Param("id"), formDeps(c, deps, nav, answer))
		if err := form.Load(c.Request.Context()); err != nil {
			renderLoadError(c, form, err)
			return
		}

		deleted, err := form.Delete(c.Request.Context())
		if nav.route != "" {
			c.Redirect(http.StatusSeeOther, nav.route)
			return
		}
		if !deleted && err == nil {
			c.Redirect(http.StatusSeeOther, "/edit/"+c.Param("id"))
			return
		}
		renderEditForm(c, statusFor(err), form)
	}
}

// ListCreatorsHandler returns every creator as JSON.
func ListCreatorsHandler(creators *services.CreatorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := creators.ListCreators(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if list == nil {
			list = []models.Creator{}
		}
		c.JSON(http.StatusOK, gin.H{"creators": list})
	}
}

// GetCreatorHandler returns one creator as JSON.
func GetCreatorHandler(creators *services.CreatorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		creator, err := creators.GetCreator(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, customerrors.ErrCreatorNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, creator)
	}
}

func renderNewForm(c *gin.Context, status int, fields forms.Fields, fieldErrors map[string]string) {
	c.HTML(status, "new.tmpl", gin.H{
		"Title":       "Add New Creator",
		"Fields":      fields,
		"FieldErrors": fieldErrors,
	})
}

func renderEditForm(c *gin.Context, status int, form *forms.EditForm) {
	c.HTML(status, "edit.tmpl", gin.H{
		"Title":       "Edit Creator",
		"ID":          form.ID(),
		"Fields":      form.Fields(),
		"FieldErrors": form.FieldErrors(),
		"Error":       form.ErrorMessage(),
	})
}

func renderLoadError(c *gin.Context, form *forms.EditForm, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNoRows) {
		status = http.StatusNotFound
	}
	c.HTML(status, "load_error.tmpl", gin.H{"Title": "Edit Creator", "ID": form.ID()})
}

// statusFor maps a form error to the status of the page shown again.
func statusFor(err error) int {
	var duplicate *customerrors.DuplicateURLError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, customerrors.ErrInvalidFields), errors.As(err, &duplicate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
