package medhub

import (
	"encoding/json"
	"strings"
	"time"
)

// Profile mirrors the user object in /api/info payloads.
type Profile struct {
	FirstName              string `json:"fname"`
	LastName               string `json:"lname"`
	Email                  string `json:"email"`
	MobileNumber           string `json:"mobileNumber"`
	Gender                 string `json:"gender"`
	BirthDate              string `json:"birthDate"`
	BloodGroup             string `json:"bloodGroup"`
	EmergencyContactNumber string `json:"emergencyContactNumber"`
	Allergies              string `json:"allergies"`
	MedicalConditions      string `json:"medicalConditions"`
}

// FullName returns "First Last" with single spacing.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Initials returns the uppercase first letters of both names.
func (p Profile) Initials() string {
	var b strings.Builder
	for _, s := range []string{p.FirstName, p.LastName} {
		if s != "" {
			b.WriteString(strings.ToUpper(s[:1]))
		}
	}
	return b.String()
}

// Address mirrors the address object in /api/info payloads.
type Address struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	PinCode       string `json:"pinCode"`
}

// Reminder describes one medicine reminder. The identifier is assigned by the
// backend and is opaque to the client.
type Reminder struct {
	ID           string `json:"id"`
	MedicineName string `json:"medicineName"`
	Dosage       string `json:"dosage"`
	Time         string `json:"time"`
	Done         bool   `json:"done"`
}

// reminderWire tolerates the identifier field names the backend has used over
// time (_id, id, reminderId).
type reminderWire struct {
	MongoID      string `json:"_id"`
	ID           string `json:"id"`
	ReminderID   string `json:"reminderId"`
	MedicineName string `json:"medicineName"`
	Dosage       string `json:"dosage"`
	Time         string `json:"time"`
	Done         bool   `json:"done"`
}

// UnmarshalJSON accepts any of the identifier spellings the API returns.
func (r *Reminder) UnmarshalJSON(data []byte) error {
	var w reminderWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	if id == "" {
		id = w.ReminderID
	}
	*r = Reminder{
		ID:           id,
		MedicineName: w.MedicineName,
		Dosage:       w.Dosage,
		Time:         w.Time,
		Done:         w.Done,
	}
	return nil
}

var timeOfDayLayouts = []string{"15:04", "3:04 PM", "03:04 PM", "3:04PM"}

// ParseTimeOfDay converts a wall-clock string into minutes since midnight.
// Both 24-hour ("21:00") and 12-hour ("09:00 PM") forms are accepted.
func ParseTimeOfDay(s string) (int, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(trimmed)); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// MinutesOfDay returns the reminder time as minutes since midnight.
// Unparseable times sort first.
func (r Reminder) MinutesOfDay() int {
	min, ok := ParseTimeOfDay(r.Time)
	if !ok {
		return -1
	}
	return min
}

// ProfileResponse mirrors the GET /api/info payload.
type ProfileResponse struct {
	User      Profile    `json:"user"`
	Address   Address    `json:"address"`
	Reminders []Reminder `json:"reminders"`
	Error     string     `json:"error"`
}

// RemindersResponse mirrors GET /api/reminders/user.
type RemindersResponse struct {
	Reminders []Reminder `json:"reminders"`
	Error     string     `json:"error"`
}

// ProfileBundle is the profile, address, and reminder set delivered together
// by the initial fetch.
type ProfileBundle struct {
	User      Profile
	Address   Address
	Reminders []Reminder
}
