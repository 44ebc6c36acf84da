// Package form implements the profile edit session and its two-state
// view/edit controller. The controller owns the working copy for the
// lifetime of an edit and hands it to the state store only after the whole
// form validates; rendering and focus handling stay in the UI layer.
package form

import (
	"strings"
	"time"

	"pillbox/internal/state"
	"pillbox/internal/validate"
)

// Mode is the controller's UI mode.
type Mode int

const (
	Viewing Mode = iota
	Editing
)

// Session is the working copy of the profile form, forked from a committed
// record when edit mode starts. It is discarded on cancel and replaces the
// committed copy atomically on a successful save.
type Session struct {
	FullName          string
	MobileNumber      string
	Gender            string
	BirthDate         string
	BloodGroup        string
	StreetAddress     string
	City              string
	State             string
	PinCode           string
	EmergencyContact  string
	Allergies         string
	MedicalConditions string

	// The fork keeps the original user so the immutable email and, for a
	// single-word name edit, the prior family name carry through.
	origin state.Record
}

// NewSession forks a working copy from a committed record.
func NewSession(rec state.Record) *Session {
	return &Session{
		FullName:          rec.User.FullName(),
		MobileNumber:      rec.User.MobileNumber,
		Gender:            rec.User.Gender,
		BirthDate:         rec.User.BirthDate,
		BloodGroup:        rec.User.BloodGroup,
		StreetAddress:     rec.Address.StreetAddress,
		City:              rec.Address.City,
		State:             rec.Address.State,
		PinCode:           rec.Address.PinCode,
		EmergencyContact:  rec.User.EmergencyContactNumber,
		Allergies:         rec.User.Allergies,
		MedicalConditions: rec.User.MedicalConditions,
		origin:            rec,
	}
}

// Input exposes the session for validation.
func (s *Session) Input() validate.ProfileInput {
	return validate.ProfileInput{
		FullName:          s.FullName,
		MobileNumber:      s.MobileNumber,
		Gender:            s.Gender,
		BirthDate:         s.BirthDate,
		BloodGroup:        s.BloodGroup,
		StreetAddress:     s.StreetAddress,
		City:              s.City,
		State:             s.State,
		PinCode:           s.PinCode,
		EmergencyContact:  s.EmergencyContact,
		Allergies:         s.Allergies,
		MedicalConditions: s.MedicalConditions,
	}
}

// Record builds the committed record from the working copy. Optional blanks
// get their display defaults, the blood group is normalized to upper case,
// and a single-word name keeps the prior family name.
func (s *Session) Record() state.Record {
	rec := s.origin

	name := strings.Fields(strings.TrimSpace(s.FullName))
	if len(name) > 0 {
		rec.User.FirstName = name[0]
		if rest := strings.Join(name[1:], " "); rest != "" {
			rec.User.LastName = rest
		}
	}
	rec.User.MobileNumber = strings.TrimSpace(s.MobileNumber)
	rec.User.Gender = strings.TrimSpace(s.Gender)
	rec.User.BirthDate = strings.TrimSpace(s.BirthDate)
	rec.User.BloodGroup = strings.ToUpper(strings.TrimSpace(s.BloodGroup))
	rec.User.Allergies = defaultIfBlank(s.Allergies, "None")
	rec.User.MedicalConditions = defaultIfBlank(s.MedicalConditions, "None")
	rec.User.EmergencyContactNumber = defaultIfBlank(s.EmergencyContact, "N/A")

	rec.Address.StreetAddress = strings.TrimSpace(s.StreetAddress)
	rec.Address.City = strings.TrimSpace(s.City)
	rec.Address.State = strings.TrimSpace(s.State)
	rec.Address.PinCode = strings.TrimSpace(s.PinCode)

	return rec
}

func defaultIfBlank(raw, fallback string) string {
	if v := strings.TrimSpace(raw); v != "" {
		return v
	}
	return fallback
}

// Controller cycles the dashboard between Viewing and Editing for the
// lifetime of the page. It owns the Session while one exists.
type Controller struct {
	store   *state.Store
	mode    Mode
	session *Session
	errors  validate.Result
	now     func() time.Time
}

// NewController builds a controller over the given profile store.
func NewController(store *state.Store) *Controller {
	return &Controller{store: store, now: time.Now}
}

// Mode returns the current UI mode.
func (c *Controller) Mode() Mode { return c.mode }

// Session returns the working copy, or nil outside edit mode.
func (c *Controller) Session() *Session { return c.session }

// Errors returns the failures from the last save attempt.
func (c *Controller) Errors() validate.Result { return c.errors }

// Edit forks a working copy from the committed record and enters edit mode.
// Stale error indicators from an earlier attempt are cleared. Re-entering
// while already editing is a no-op.
func (c *Controller) Edit() {
	if c.mode == Editing {
		return
	}
	c.session = NewSession(c.store.Snapshot().Record)
	c.errors = nil
	c.mode = Editing
}

// Cancel discards the working copy and returns to view mode. Calling it
// again is a no-op; the reported bool says whether an edit was discarded.
func (c *Controller) Cancel() bool {
	if c.mode != Editing {
		return false
	}
	c.session = nil
	c.errors = nil
	c.mode = Viewing
	return true
}

// Save validates the whole working copy. On any failure the controller stays
// in edit mode, records the failures, and no field is committed. On success
// the working copy replaces the committed record, the controller returns to
// view mode, and the new record is returned for the caller to push to the
// backend.
func (c *Controller) Save() (state.Record, bool) {
	if c.mode != Editing || c.session == nil {
		return state.Record{}, false
	}
	result := validate.Profile(c.session.Input(), c.now())
	if !result.OK() {
		c.errors = result
		return state.Record{}, false
	}

	rec := c.session.Record()
	c.store.Commit(rec)
	c.session = nil
	c.errors = nil
	c.mode = Viewing
	return rec, true
}
