//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// ConsentPreferences are the visitor's cookie consent choices. Necessary
// cookies cannot be refused.
type ConsentPreferences struct {
	Necessary   bool `json:"necessary"`
	Functional  bool `json:"functional"`
	Analytics   bool `json:"analytics"`
	Advertising bool `json:"advertising"`
}

// Normalize forces the necessary category on.
func (p ConsentPreferences) Normalize() ConsentPreferences {
	p.Necessary = true
	return p
}

// AcceptAllPreferences grants every category.
func AcceptAllPreferences() ConsentPreferences {
	return ConsentPreferences{Necessary: true, Functional: true, Analytics: true, Advertising: true}
}

// NecessaryOnlyPreferences refuses every optional category.
func NecessaryOnlyPreferences() ConsentPreferences {
	return ConsentPreferences{Necessary: true}
}

// ConsentState is the consent view reported to the page shell.
type ConsentState struct {
	Preferences  ConsentPreferences `json:"preferences"`
	HasConsented bool               `json:"has_consented"`
	ShowBanner   bool               `json:"show_banner"`
}
