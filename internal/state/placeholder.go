package state

import (
	"github.com/google/uuid"

	"pillbox/internal/medhub"
)

// PlaceholderRecord is the built-in fallback profile rendered when nothing
// has ever loaded from the backend. It keeps the UI usable offline.
func PlaceholderRecord() Record {
	return Record{
		User: medhub.Profile{
			FirstName:              "John",
			LastName:               "Doe",
			Email:                  "john@example.com",
			MobileNumber:           "+91 9876543210",
			Gender:                 "Male",
			BirthDate:              "1990-01-15",
			BloodGroup:             "O+",
			EmergencyContactNumber: "+91 9123456789",
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

// PlaceholderReminders is the fallback reminder list. IDs are generated
// locally; they are never sent to the backend.
func PlaceholderReminders() []medhub.Reminder {
	return []medhub.Reminder{
		{ID: uuid.NewString(), Time: "08:00 AM", MedicineName: "Amoxicillin", Dosage: "500 mg"},
		{ID: uuid.NewString(), Time: "01:00 PM", MedicineName: "Ibuprofen", Dosage: "200 mg"},
		{ID: uuid.NewString(), Time: "09:00 PM", MedicineName: "Lisinopril", Dosage: "10 mg"},
	}
}
