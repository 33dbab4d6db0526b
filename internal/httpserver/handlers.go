package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	custommw "github.com/JospenWolongwo/barber-shop-website/internal/middleware"
	"github.com/JospenWolongwo/barber-shop-website/internal/nav"
	"github.com/JospenWolongwo/barber-shop-website/internal/observability"
	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

// home renders the full document. The URL decides the section: ?section=
// selects it and a bare / selects the home composite.
func (s *server) home(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok {
		return
	}
	raw := r.URL.Query().Get("section")
	if raw == "" {
		raw = site.SectionHome.String()
	}
	if _, err := visitor.SelectSection(raw); err != nil {
		s.logInvalidSection(r, raw, err)
	}
	s.renderView(w, r, http.StatusOK, "page", visitor.Snapshot(), nil)
}

// loading holds the splash poll open until the visitor's loading gate opens
// or loadingWait passes, then answers with the app shell or a fresh splash.
func (s *server) loading(w http.ResponseWriter, r *http.Request) {
	if !custommw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	visitor, ok := s.visitor(w, r)
	if !ok {
		return
	}
	if visitor.Loading() {
		timer := time.NewTimer(s.loadingWait)
		defer timer.Stop()
		select {
		case <-visitor.LoadingDone():
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}
	snap := visitor.Snapshot()
	name := "app"
	if snap.Loading {
		name = "splash"
	}
	s.renderView(w, r, http.StatusOK, name, snap, nil)
}

func (s *server) selectSection(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	raw := r.PostFormValue("section")
	state, err := visitor.SelectSection(raw)
	if err != nil {
		s.logInvalidSection(r, raw, err)
	}
	w.Header().Set("HX-Push-Url", nav.Href(state.Active))
	s.renderView(w, r, http.StatusOK, "app", visitor.Snapshot(), nil)
}

func (s *server) toggleMenu(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok {
		return
	}
	visitor.ToggleMenu()
	s.renderView(w, r, http.StatusOK, "header", visitor.Snapshot(), nil)
}

// section renders the blocks of one section without changing visitor state.
func (s *server) section(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok {
		return
	}
	sec, err := site.ParseSection(chi.URLParam(r, "id"))
	if err != nil {
		custommw.WriteError(w, r, http.StatusNotFound, "unknown section")
		return
	}
	snap := visitor.Snapshot()
	snap.View.Active = sec
	s.renderView(w, r, http.StatusOK, "blocks", snap, nil)
}

func (s *server) openImage(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	index, err := strconv.Atoi(r.PostFormValue("index"))
	if err != nil {
		custommw.WriteError(w, r, http.StatusNotFound, "unknown image")
		return
	}
	img, found := s.content.Catalog().GalleryImage(index)
	if !found {
		custommw.WriteError(w, r, http.StatusNotFound, "unknown image")
		return
	}
	visitor.OpenImage(img)
	s.renderView(w, r, http.StatusOK, "modal", visitor.Snapshot(), nil)
}

func (s *server) dismissImage(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	target, err := site.ParseClickTarget(r.PostFormValue("target"))
	if err != nil {
		observability.FromContext(r.Context()).Warn("gallery click rejected", zap.Error(err))
		custommw.WriteError(w, r, http.StatusBadRequest, "unknown click target")
		return
	}
	visitor.ClickGallery(target)
	s.renderView(w, r, http.StatusOK, "modal", visitor.Snapshot(), nil)
}

// setContactField stores one keystroke-level update. The value comes from
// "value" when present, otherwise from the input named after the field. Inputs
// send the form revision they were rendered at in "rev".
func (s *server) setContactField(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	field := r.PostFormValue("field")
	value := r.PostFormValue("value")
	if _, present := r.PostForm["value"]; !present {
		value = r.PostFormValue(field)
	}
	var err error
	if raw := r.PostFormValue("rev"); raw != "" {
		rev, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			custommw.WriteError(w, r, http.StatusBadRequest, "invalid form revision")
			return
		}
		err = visitor.SetFieldAt(rev, field, value)
	} else {
		err = visitor.SetField(field, value)
	}
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, site.ErrUnknownField):
		custommw.WriteError(w, r, http.StatusBadRequest, "unknown field")
	case errors.Is(err, site.ErrStaleForm):
		observability.FromContext(r.Context()).Debug("late contact field update dropped", zap.Error(err))
		custommw.WriteError(w, r, http.StatusConflict, "form already submitted")
	default:
		custommw.WriteError(w, r, http.StatusInternalServerError, "update failed")
	}
}

type submittedEvent struct {
	Message   string `json:"message"`
	Reference string `json:"reference"`
}

// submitContact applies the submitted inputs, acknowledges the message and
// answers with an empty form plus a contact:submitted event.
func (s *server) submitContact(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	for _, f := range site.Fields() {
		if values, present := r.PostForm[string(f)]; present && len(values) > 0 {
			_ = visitor.SetField(string(f), values[0])
		}
	}
	ack := visitor.SubmitContact()

	observability.FromContext(r.Context()).Info("contact message received",
		zap.String("reference", ack.Reference),
		zap.String("name", observability.SanitizeField(ack.Submitted.Name)),
		zap.String("email", observability.SanitizeField(ack.Submitted.Email)),
		zap.String("phone", observability.SanitizeField(ack.Submitted.Phone)),
		zap.String("message", observability.SanitizeField(ack.Submitted.Message)),
	)

	lang := custommw.Lang(r.Context(), s.bundle.Fallback())
	payload := map[string]submittedEvent{
		"contact:submitted": {Message: s.bundle.T(lang, "contact.ack"), Reference: ack.Reference},
	}
	if raw, err := json.Marshal(payload); err == nil {
		w.Header().Set("HX-Trigger", string(raw))
	}
	s.renderView(w, r, http.StatusOK, "contact_form", visitor.Snapshot(), &ack)
}

// endSession tears the visitor down and clears its cookie.
func (s *server) endSession(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.visitor(w, r)
	if !ok {
		return
	}
	s.visitors.End(visitor.ID())
	s.sessions.Destroy(w)
	observability.FromContext(r.Context()).Debug("visitor ended")
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) visitor(w http.ResponseWriter, r *http.Request) (*site.Visitor, bool) {
	v, ok := custommw.VisitorFromContext(r.Context())
	if !ok {
		custommw.WriteError(w, r, http.StatusInternalServerError, "missing visitor")
	}
	return v, ok
}

func (s *server) renderView(w http.ResponseWriter, r *http.Request, status int, name string, snap site.Snapshot, ack *site.Acknowledgement) {
	view, err := s.view(r, snap)
	if err != nil {
		observability.FromContext(r.Context()).Error("build view", zap.Error(err))
		custommw.WriteError(w, r, http.StatusInternalServerError, "render failed")
		return
	}
	view.Ack = ack
	if hx := custommw.HTMXInfoFromContext(r.Context()); hx.IsHTMX {
		observability.FromContext(r.Context()).Debug("render fragment",
			zap.String("template", name),
			zap.String("hx_target", observability.SanitizeField(hx.Target)),
			zap.String("hx_trigger", observability.SanitizeField(hx.TriggerID)),
		)
	}
	s.templates.render(w, r, status, name, view)
}

func (s *server) logInvalidSection(r *http.Request, raw string, err error) {
	observability.FromContext(r.Context()).Warn("invalid section, showing home",
		zap.String("section", observability.SanitizeField(raw)),
		zap.Error(err),
	)
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		custommw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return false
	}
	return true
}
