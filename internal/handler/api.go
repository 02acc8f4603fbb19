package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"wedding-planner/internal/analytics"
	"wedding-planner/internal/errmsg"
	"wedding-planner/internal/form"
	"wedding-planner/internal/guestlist"
	"wedding-planner/internal/models"
	"wedding-planner/internal/storage"
)

// Options wire the API to its collaborators
type Options struct {
	Sessions *Registry
	Steps    []form.StepDefinition
	Guests   storage.GuestRepository
	Events   *analytics.Emitter
	Lang     string
	Logger   zerolog.Logger
}

// API serves the questionnaire and the guest list over HTTP
type API struct {
	sessions *Registry
	steps    []form.StepDefinition
	guests   storage.GuestRepository
	events   *analytics.Emitter
	lang     string
	log      zerolog.Logger
}

// NewAPI creates the HTTP API
func NewAPI(opts Options) *API {
	steps := opts.Steps
	if len(steps) == 0 {
		steps = form.DefaultSteps()
	}
	lang := opts.Lang
	if lang == "" {
		lang = errmsg.DefaultLang
	}
	return &API{
		sessions: opts.Sessions,
		steps:    steps,
		guests:   opts.Guests,
		events:   opts.Events,
		lang:     lang,
		log:      opts.Logger.With().Str("component", "API").Logger(),
	}
}

// App builds a fiber app with every route mounted under /api/v1.
func (a *API) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "wedding-planner",
		ErrorHandler:          a.errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(a.requestLogger)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "running"})
	})
	a.Register(app.Group("/api/v1"))
	return app
}

// Register mounts the routes on router.
func (a *API) Register(router fiber.Router) {
	router.Get("/steps", a.listSteps)
	router.Get("/analytics/events", a.listEvents)

	forms := router.Group("/forms")
	forms.Post("/", a.createForm)
	forms.Get("/:id", a.getForm)
	forms.Delete("/:id", a.resetForm)
	forms.Patch("/:id/steps/:step", a.updateStep)
	forms.Post("/:id/validate", a.validateStep)
	forms.Post("/:id/next", a.nextStep)
	forms.Post("/:id/prev", a.prevStep)
	forms.Post("/:id/goto/:n", a.goToStep)
	forms.Post("/:id/submit", a.submitForm)
	forms.Get("/:id/score", a.leadScore)

	guests := router.Group("/guests")
	guests.Get("/", a.listGuests)
	guests.Post("/import", a.importGuests)
	guests.Get("/export.csv", a.exportGuests)
	guests.Get("/print", a.printGuests)
	guests.Get("/print.pdf", a.printGuestsPDF)
}

func (a *API) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		a.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Request failed")
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("method", c.Method())
			scope.SetTag("route", c.Route().Path)
			sentry.CaptureException(err)
		})
	}

	msg := errmsg.Internal
	switch code {
	case fiber.StatusNotFound:
		msg = errmsg.NotFound
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		msg = errmsg.ValidationFailed
	case fiber.StatusTooManyRequests:
		msg = errmsg.RateLimited
	}
	return errorResponse(c, code, errmsg.Lookup(msg, a.language(c)), err)
}

func (a *API) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	a.log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("Request")
	return err
}

func (a *API) language(c *fiber.Ctx) string {
	if l := c.Get(fiber.HeaderAcceptLanguage); l != "" {
		return l
	}
	return a.lang
}

func (a *API) fail(c *fiber.Ctx, status int, code string, details any) error {
	return errorResponse(c, status, errmsg.Lookup(code, a.language(c)), details)
}

func (a *API) session(c *fiber.Ctx) (*form.Session, error) {
	s, ok := a.sessions.Get(c.Params("id"))
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "form session not found")
	}
	return s, nil
}

func (a *API) listSteps(c *fiber.Ctx) error {
	return c.JSON(successResponse(a.steps))
}

func (a *API) listEvents(c *fiber.Ctx) error {
	events := []analytics.Event{}
	if a.events != nil {
		if id := c.Query("session"); id != "" {
			events = a.events.EventsFor(id)
		} else {
			events = a.events.Events()
		}
	}
	return c.JSON(successResponse(events))
}

func (a *API) createForm(c *fiber.Ctx) error {
	s := a.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(successResponse(s.State()))
}

func (a *API) getForm(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}
	return c.JSON(successResponse(s.State()))
}

func (a *API) resetForm(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}
	s.ClearProgress()
	a.sessions.Remove(s.ID())
	return c.JSON(successResponse(fiber.Map{"id": s.ID(), "cleared": true}))
}

func (a *API) updateStep(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}

	var partial map[string]any
	if err := c.BodyParser(&partial); err != nil {
		return a.fail(c, fiber.StatusBadRequest, errmsg.ValidationFailed, err)
	}

	err = s.UpdateStepData(models.StepKey(c.Params("step")), partial)
	switch {
	case errors.Is(err, form.ErrUnknownStep):
		return a.fail(c, fiber.StatusNotFound, errmsg.NotFound, err)
	case errors.Is(err, form.ErrInvalidPatch):
		return a.fail(c, fiber.StatusBadRequest, errmsg.ValidationFailed, err)
	case err != nil:
		return err
	}
	return c.JSON(successResponse(s.State()))
}

func (a *API) validateStep(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}
	valid := s.ValidateCurrentStep()
	return c.JSON(successResponse(fiber.Map{
		"valid":  valid,
		"step":   s.CurrentStep(),
		"errors": s.Errors(s.CurrentDefinition().Key),
	}))
}

func (a *API) nextStep(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}
	return c.JSON(successResponse(s.NextStep()))
}

func (a *API) prevStep(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}
	s.PrevStep()
	return c.JSON(successResponse(s.State()))
}

func (a *API) goToStep(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}
	n, err := c.ParamsInt("n")
	if err != nil || !s.GoToStep(n) {
		return a.fail(c, fiber.StatusBadRequest, errmsg.ValidationFailed,
			fmt.Sprintf("step must be between 1 and %d", s.TotalSteps()))
	}
	return c.JSON(successResponse(s.State()))
}

func (a *API) submitForm(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}

	sub, err := s.SubmitForm(c.UserContext())
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		return a.fail(c, fiber.StatusUnprocessableEntity, errmsg.ValidationFailed, verr.Errors)
	case errors.Is(err, form.ErrNotLastStep):
		return a.fail(c, fiber.StatusConflict, errmsg.ValidationFailed, err)
	case err != nil:
		return err
	}

	a.sessions.Remove(s.ID())
	return c.Status(fiber.StatusCreated).JSON(successResponse(sub))
}

func (a *API) leadScore(c *fiber.Ctx) error {
	s, err := a.session(c)
	if err != nil {
		return err
	}
	return c.JSON(successResponse(s.LeadScore()))
}

func (a *API) loadGuests(c *fiber.Ctx) ([]models.Guest, error) {
	status := models.RSVPStatus(c.Query("status"))
	if status == "" {
		return a.guests.GetAllGuests(c.UserContext())
	}
	if !status.Valid() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unknown rsvp status "+string(status))
	}
	return a.guests.GetGuestsByStatus(c.UserContext(), status)
}

func (a *API) listGuests(c *fiber.Ctx) error {
	guests, err := a.loadGuests(c)
	if err != nil {
		return err
	}
	if guests == nil {
		guests = []models.Guest{}
	}
	return c.JSON(successResponse(guests))
}

func (a *API) importGuests(c *fiber.Ctx) error {
	var r io.Reader = bytes.NewReader(c.Body())
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		r = f
	}

	res, err := guestlist.ImportCSV(r)
	if err != nil {
		return a.fail(c, fiber.StatusBadRequest, errmsg.ValidationFailed, err)
	}

	if err := a.guests.AddGuests(c.UserContext(), res.Guests); err != nil {
		return fmt.Errorf("failed to add guests: %w", err)
	}
	a.log.Info().Int("imported", len(res.Guests)).Int("rejected", res.Rejected()).Msg("Guests imported")

	issues := res.Issues
	if issues == nil {
		issues = []guestlist.RowIssue{}
	}
	return c.Status(fiber.StatusCreated).JSON(successResponse(fiber.Map{
		"total":    res.Total,
		"imported": len(res.Guests),
		"rejected": res.Rejected(),
		"issues":   issues,
	}))
}

func (a *API) exportGuests(c *fiber.Ctx) error {
	guests, err := a.loadGuests(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := guestlist.ExportGuestsToCSV(&buf, guests, queryFields(c)); err != nil {
		return a.fail(c, fiber.StatusBadRequest, errmsg.ValidationFailed, err)
	}
	c.Attachment(guestlist.ExportFilename(c.Query("filename"), ".csv"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (a *API) printGuests(c *fiber.Ctx) error {
	guests, err := a.loadGuests(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := guestlist.GeneratePrintableList(&buf, guests, queryFields(c), c.Query("title")); err != nil {
		return a.fail(c, fiber.StatusBadRequest, errmsg.ValidationFailed, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

func (a *API) printGuestsPDF(c *fiber.Ctx) error {
	guests, err := a.loadGuests(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := guestlist.GeneratePrintablePDF(&buf, guests, queryFields(c), c.Query("title")); err != nil {
		if errors.Is(err, guestlist.ErrUnknownField) {
			return a.fail(c, fiber.StatusBadRequest, errmsg.ValidationFailed, err)
		}
		return err
	}
	c.Attachment(guestlist.ExportFilename(c.Query("filename"), ".pdf"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(buf.Bytes())
}

func queryFields(c *fiber.Ctx) []string {
	var fields []string
	for _, f := range strings.Split(c.Query("fields"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
