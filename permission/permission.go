package permission

// Permission is an atomic capability tag from a closed vocabulary. The
// tags are stable strings: they appear in persisted session state and
// in signed tickets, so renaming one is a breaking change.
type Permission string

const (
	// CanAccessAdminPanel gates the administrative dashboard.
	CanAccessAdminPanel Permission = "can-access-admin-panel"
	// CanManageUsers gates staff account administration.
	CanManageUsers Permission = "can-manage-users"
	// CanManageBackups gates backup creation and restore.
	CanManageBackups Permission = "can-manage-backups"
	// CanViewAuditLogs gates the login-attempt and audit views.
	CanViewAuditLogs Permission = "can-view-audit-logs"
	// CanViewAllPatients gates the hospital-wide patient list.
	CanViewAllPatients Permission = "can-view-all-patients"
	// CanEditPatient gates patient record edits.
	CanEditPatient Permission = "can-edit-patient"
	// CanAddPatient gates patient registration.
	CanAddPatient Permission = "can-add-patient"
	// CanDeletePatient gates patient record deletion.
	CanDeletePatient Permission = "can-delete-patient"
	// CanAddAppointment gates appointment booking.
	CanAddAppointment Permission = "can-add-appointment"
	// CanEditAppointment gates appointment rescheduling.
	CanEditAppointment Permission = "can-edit-appointment"
	// CanDeleteAppointment gates appointment cancellation.
	CanDeleteAppointment Permission = "can-delete-appointment"
	// CanAccessLabSection gates the laboratory section.
	CanAccessLabSection Permission = "can-access-lab-section"
	// CanUploadLabResults gates lab result uploads.
	CanUploadLabResults Permission = "can-upload-lab-results"
	// CanSetLabPrices gates the lab price list.
	CanSetLabPrices Permission = "can-set-lab-prices"
	// CanExportReports gates report export.
	CanExportReports Permission = "can-export-reports"
)

// Role is a closed category of hospital staff. Every Role must have a
// non-empty entry in the catalog it is used with; this is a
// configuration-time invariant checked by [NewCatalog].
type Role string

const (
	// RoleAdmin is the hospital administrator role.
	RoleAdmin Role = "admin"
	// RoleDoctor is the treating physician role.
	RoleDoctor Role = "doctor"
	// RoleReceptionist is the front-desk role.
	RoleReceptionist Role = "receptionist"
	// RoleLab is the laboratory technician role.
	RoleLab Role = "lab"
)

// All returns the full permission vocabulary in declaration order. The
// order is significant: it fixes the bit assignment inside a catalog's
// registry, which in turn fixes the mask layout carried by tickets.
func All() []Permission {
	return []Permission{
		CanAccessAdminPanel,
		CanManageUsers,
		CanManageBackups,
		CanViewAuditLogs,
		CanViewAllPatients,
		CanEditPatient,
		CanAddPatient,
		CanDeletePatient,
		CanAddAppointment,
		CanEditAppointment,
		CanDeleteAppointment,
		CanAccessLabSection,
		CanUploadLabResults,
		CanSetLabPrices,
		CanExportReports,
	}
}

// Roles returns the closed role set in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleDoctor, RoleReceptionist, RoleLab}
}

// DefaultRolePermissions is the built-in role to permission-set mapping.
// The admin set is a strict superset of every other role's set; the
// catalog constructor enforces this.
func DefaultRolePermissions() map[Role][]Permission {
	return map[Role][]Permission{
		RoleAdmin: {
			CanAccessAdminPanel,
			CanManageUsers,
			CanManageBackups,
			CanViewAuditLogs,
			CanViewAllPatients,
			CanEditPatient,
			CanAddPatient,
			CanDeletePatient,
			CanAddAppointment,
			CanEditAppointment,
			CanDeleteAppointment,
			CanAccessLabSection,
			CanUploadLabResults,
			CanSetLabPrices,
			CanExportReports,
		},
		RoleDoctor: {
			CanViewAllPatients,
			CanEditPatient,
			CanAddPatient,
			CanAddAppointment,
			CanEditAppointment,
			CanAccessLabSection,
			CanExportReports,
		},
		RoleReceptionist: {
			CanViewAllPatients,
			CanAddPatient,
			CanEditPatient,
			CanAddAppointment,
			CanEditAppointment,
			CanExportReports,
		},
		RoleLab: {
			CanAccessLabSection,
			CanUploadLabResults,
			CanSetLabPrices,
			CanViewAllPatients,
			CanExportReports,
		},
	}
}
