package domain

// Category is an outcome classification that every external status
// must be mapped into before it counts toward statistics
type Category string

const (
	CategoryBadContact      Category = "bad_contact"
	CategoryDead            Category = "dead"
	CategoryStillContacting Category = "still_contacting"
	CategoryInstall         Category = "install"
	CategoryDemo            Category = "demo"
)

// Categories returns the full taxonomy in a stable order
func Categories() []Category {
	return []Category{
		CategoryBadContact,
		CategoryDead,
		CategoryStillContacting,
		CategoryInstall,
		CategoryDemo,
	}
}

// IsValid returns true if the category is a taxonomy member
func (c Category) IsValid() bool {
	switch c {
	case CategoryBadContact, CategoryDead, CategoryStillContacting, CategoryInstall, CategoryDemo:
		return true
	}
	return false
}

// RecordType identifies which CRM record a status belongs to
type RecordType string

const (
	RecordTypeLead        RecordType = "lead"
	RecordTypeAppointment RecordType = "appointment"
)

// IsValid returns true if the record type is known
func (r RecordType) IsValid() bool {
	return r == RecordTypeLead || r == RecordTypeAppointment
}
