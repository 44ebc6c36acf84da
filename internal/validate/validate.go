// Package validate holds the pure field validators for profile, registration,
// and reminder input. Validators only inspect strings and report; they never
// mutate the records they check, and a whole-form run always evaluates every
// field so all failures can be reported at once.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"pillbox/internal/medhub"
)

// Field names shared with the UI so error messages land under the right input.
const (
	FieldFullName         = "fullName"
	FieldMobileNumber     = "mobileNumber"
	FieldGender           = "gender"
	FieldBirthDate        = "birthDate"
	FieldBloodGroup       = "bloodGroup"
	FieldStreetAddress    = "streetAddress"
	FieldCity             = "city"
	FieldState            = "state"
	FieldPinCode          = "pinCode"
	FieldEmergencyContact = "emergencyContact"

	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"

	FieldMedicineName = "medicineName"
	FieldDosage       = "dosage"
	FieldTime         = "time"
)

// Result maps failing field names to human-readable messages. An empty Result
// means the whole form passed.
type Result map[string]string

// OK reports whether no field failed.
func (r Result) OK() bool { return len(r) == 0 }

// Message returns the failure message for a field, or "" when it passed.
func (r Result) Message(field string) string { return r[field] }

var (
	lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phonePattern     = regexp.MustCompile(`^\+?\d{10,15}$`)
	pinPattern       = regexp.MustCompile(`^\d{6}$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneSeparators  = strings.NewReplacer(" ", "", "-", "")
)

// bloodGroups is the fixed eight-value enumeration; matching is
// case-insensitive and the empty/placeholder value is allowed.
var bloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// placeholder marks a field the view layer renders as "not set".
const placeholder = "N/A"

// FullName checks the combined given+family name field.
func FullName(raw string) string {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return "Name is required"
	case len(name) < 2:
		return "Name must be at least 2 characters"
	case !lettersAndSpaces.MatchString(name):
		return "Name can only contain letters and spaces"
	}
	return ""
}

// Phone checks a phone-like field. Optional fields pass when blank or still
// showing the placeholder.
func Phone(raw string, required bool) string {
	phone := strings.TrimSpace(raw)
	if phone == "" || phone == placeholder {
		if required {
			return "Mobile number is required"
		}
		return ""
	}
	if !phonePattern.MatchString(phoneSeparators.Replace(phone)) {
		return "Enter a valid phone number (10-15 digits)"
	}
	return ""
}

// Gender requires a non-empty selection.
func Gender(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Gender is required"
	}
	return ""
}

// BirthDate requires an ISO date that is not in the future and implies an age
// of at most 150 years.
func BirthDate(raw string, today time.Time) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "Birth date is required"
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "Enter a valid birth date"
	}
	if date.After(today) {
		return "Birth date cannot be in the future"
	}
	if today.Year()-date.Year() > 150 {
		return "Enter a valid birth date"
	}
	return ""
}

// BloodGroup is optional; when present it must be one of the eight groups.
func BloodGroup(raw string) string {
	group := strings.TrimSpace(raw)
	if group == "" || group == placeholder {
		return ""
	}
	upper := strings.ToUpper(group)
	for _, valid := range bloodGroups {
		if upper == valid {
			return ""
		}
	}
	return "Enter a valid blood group (e.g., O+, A-, AB+)"
}

// StreetAddress requires at least 5 characters.
func StreetAddress(raw string) string {
	street := strings.TrimSpace(raw)
	switch {
	case street == "":
		return "Street address is required"
	case len(street) < 5:
		return "Address must be at least 5 characters"
	}
	return ""
}

// LetterField checks city/state style fields: required, letters and spaces only.
func LetterField(raw, label string) string {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return fmt.Sprintf("%s is required", label)
	case !lettersAndSpaces.MatchString(value):
		return fmt.Sprintf("%s can only contain letters", label)
	}
	return ""
}

// PinCode requires exactly 6 digits.
func PinCode(raw string) string {
	pin := strings.TrimSpace(raw)
	switch {
	case pin == "":
		return "PIN code is required"
	case !pinPattern.MatchString(pin):
		return "PIN code must be 6 digits"
	}
	return ""
}

// Email checks basic address shape.
func Email(raw string) string {
	if !emailPattern.MatchString(strings.TrimSpace(raw)) {
		return "Enter a valid email address"
	}
	return ""
}

// Password requires a minimum length of 8.
func Password(raw string) string {
	if len(raw) < 8 {
		return "Password must be at least 8 characters"
	}
	return ""
}

// PasswordStrength scores a password 0-4: length, mixed case, digits, symbols.
func PasswordStrength(pwd string) int {
	score := 0
	if len(pwd) >= 8 {
		score++
	}
	var lower, upper, digit, symbol bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	if lower && upper {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}
	return score
}

// ProfileInput is the raw working copy of the profile edit form.
type ProfileInput struct {
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
}

// Profile runs every profile validator and collects all failures. The free
// text fields (allergies, medical conditions) accept anything.
func Profile(in ProfileInput, today time.Time) Result {
	result := Result{}
	record := func(field, msg string) {
		if msg != "" {
			result[field] = msg
		}
	}
	record(FieldFullName, FullName(in.FullName))
	record(FieldMobileNumber, Phone(in.MobileNumber, true))
	record(FieldGender, Gender(in.Gender))
	record(FieldBirthDate, BirthDate(in.BirthDate, today))
	record(FieldBloodGroup, BloodGroup(in.BloodGroup))
	record(FieldStreetAddress, StreetAddress(in.StreetAddress))
	record(FieldCity, LetterField(in.City, "City"))
	record(FieldState, LetterField(in.State, "State"))
	record(FieldPinCode, PinCode(in.PinCode))
	record(FieldEmergencyContact, Phone(in.EmergencyContact, false))
	return result
}

// Registration validates the signup form.
func Registration(name, email, password, confirm string) Result {
	result := Result{}
	if len(strings.TrimSpace(name)) < 2 {
		result[FieldName] = "Please enter your full name"
	}
	if msg := Email(email); msg != "" {
		result[FieldEmail] = msg
	}
	if msg := Password(password); msg != "" {
		result[FieldPassword] = msg
	}
	if password != confirm {
		result[FieldConfirmPassword] = "Passwords do not match"
	}
	return result
}

// Reminder validates the add-reminder form: every field non-empty and the
// time parseable as wall-clock.
func Reminder(medicineName, dosage, timeOfDay string) Result {
	result := Result{}
	if strings.TrimSpace(medicineName) == "" {
		result[FieldMedicineName] = "Medicine name is required"
	}
	if strings.TrimSpace(dosage) == "" {
		result[FieldDosage] = "Dosage is required"
	}
	if strings.TrimSpace(timeOfDay) == "" {
		result[FieldTime] = "Time is required"
	} else if _, ok := medhub.ParseTimeOfDay(timeOfDay); !ok {
		result[FieldTime] = "Enter a valid time (e.g., 08:00 or 08:00 AM)"
	}
	return result
}
