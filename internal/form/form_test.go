package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillbox/internal/medhub"
	"pillbox/internal/state"
	"pillbox/internal/validate"
)

func committed() state.Record {
	return state.Record{
		User: medhub.Profile{
			FirstName:              "John",
			LastName:               "Doe",
			Email:                  "john@example.com",
			MobileNumber:           "+919876543210",
			Gender:                 "Male",
			BirthDate:              "1990-01-15",
			BloodGroup:             "O+",
			EmergencyContactNumber: "+919123456789",
			Allergies:              "Penicillin",
			MedicalConditions:      "Hypertension",
		},
		Address: medhub.Address{
			StreetAddress: "123 Medical St",
			City:          "Mumbai",
			State:         "Maharashtra",
			PinCode:       "400001",
		},
	}
}

func newTestController(t *testing.T) (*Controller, *state.Store) {
	t.Helper()
	store := state.NewStore()
	store.Load(committed())
	c := NewController(store)
	c.now = func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) }
	return c, store
}

func TestController_EditForksWorkingCopy(t *testing.T) {
	c, store := newTestController(t)

	assert.Equal(t, Viewing, c.Mode())
	c.Edit()
	require.Equal(t, Editing, c.Mode())
	require.NotNil(t, c.Session())
	assert.Equal(t, "John Doe", c.Session().FullName)

	// The working copy is independent of the committed record.
	c.Session().FullName = "Jane Roe"
	assert.Equal(t, "John", store.Snapshot().Record.User.FirstName)
}

func TestController_CancelIsIdempotent(t *testing.T) {
	c, store := newTestController(t)

	c.Edit()
	c.Session().City = "Delhi"

	assert.True(t, c.Cancel())
	assert.Equal(t, Viewing, c.Mode())
	assert.Nil(t, c.Session())
	assert.Equal(t, "Mumbai", store.Snapshot().Record.Address.City)

	// Second cancel is a no-op.
	assert.False(t, c.Cancel())
	assert.Equal(t, Viewing, c.Mode())
}

func TestController_SaveRejectsInvalidForm(t *testing.T) {
	c, store := newTestController(t)

	c.Edit()
	c.Session().FullName = "J"
	c.Session().PinCode = "40001"

	_, ok := c.Save()
	require.False(t, ok)
	assert.Equal(t, Editing, c.Mode(), "failed save must stay in edit mode")
	assert.Equal(t, "Name must be at least 2 characters", c.Errors().Message(validate.FieldFullName))
	assert.Equal(t, "PIN code must be 6 digits", c.Errors().Message(validate.FieldPinCode))

	// Nothing was committed: no field updated, store not dirty.
	snap := store.Snapshot()
	assert.False(t, snap.Dirty)
	assert.Equal(t, "John", snap.Record.User.FirstName)
}

func TestController_SaveCommitsAndReturnsRecord(t *testing.T) {
	c, store := newTestController(t)

	c.Edit()
	c.Session().FullName = "Jane Roe"
	c.Session().BloodGroup = "ab+"
	c.Session().Allergies = "  "
	c.Session().EmergencyContact = ""

	rec, ok := c.Save()
	require.True(t, ok)
	assert.Equal(t, Viewing, c.Mode())
	assert.Nil(t, c.Session())
	assert.Empty(t, c.Errors())

	assert.Equal(t, "Jane", rec.User.FirstName)
	assert.Equal(t, "Roe", rec.User.LastName)
	assert.Equal(t, "AB+", rec.User.BloodGroup, "blood group is normalized")
	assert.Equal(t, "None", rec.User.Allergies, "optional blanks get display defaults")
	assert.Equal(t, "N/A", rec.User.EmergencyContactNumber)
	assert.Equal(t, "john@example.com", rec.User.Email, "email is immutable")

	snap := store.Snapshot()
	assert.True(t, snap.Dirty, "optimistic commit happens before any push")
	assert.Equal(t, "Jane", snap.Record.User.FirstName)
}

func TestController_EditClearsStaleErrors(t *testing.T) {
	c, _ := newTestController(t)

	c.Edit()
	c.Session().FullName = ""
	_, ok := c.Save()
	require.False(t, ok)
	require.NotEmpty(t, c.Errors())

	c.Cancel()
	c.Edit()
	assert.Empty(t, c.Errors(), "entering edit mode clears stale error indicators")
	assert.Equal(t, "John Doe", c.Session().FullName, "fork restarts from committed copy")
}

func TestSession_SingleWordNameKeepsFamilyName(t *testing.T) {
	s := NewSession(committed())
	s.FullName = "Johnny"
	rec := s.Record()
	assert.Equal(t, "Johnny", rec.User.FirstName)
	assert.Equal(t, "Doe", rec.User.LastName)
}
