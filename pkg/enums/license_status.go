package enums

import "fmt"

// LicenseStatus maps to the license_status enum in Postgres.
type LicenseStatus string

const (
	LicenseStatusValid     LicenseStatus = "VALID"
	LicenseStatusSuspended LicenseStatus = "SUSPENDED"
	LicenseStatusCancelled LicenseStatus = "CANCELLED"
)

var validLicenseStatuses = []LicenseStatus{
	LicenseStatusValid,
	LicenseStatusSuspended,
	LicenseStatusCancelled,
}

// String implements fmt.Stringer.
func (l LicenseStatus) String() string {
	return string(l)
}

// IsValid reports whether the value matches the canonical license_status enum.
func (l LicenseStatus) IsValid() bool {
	for _, candidate := range validLicenseStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLicenseStatus converts raw input into LicenseStatus.
func ParseLicenseStatus(value string) (LicenseStatus, error) {
	for _, candidate := range validLicenseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid license status %q", value)
}
