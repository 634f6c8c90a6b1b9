package models

// Languages is the fixed list of supported native/target languages, in
// display order.
var Languages = []string{
	"English",
	"German/Deutsch",
	"Japanese/日本語",
	"Indonesian/Bahasa Indonesia",
	"French/Français",
	"Spanish/Español",
	"Dutch/Nederlands",
	"Others",
}

var validLanguages = func() map[string]bool {
	m := make(map[string]bool, len(Languages))
	for _, l := range Languages {
		m[l] = true
	}
	return m
}()

// IsLanguage reports whether s is one of the supported languages
func IsLanguage(s string) bool {
	return validLanguages[s]
}

// ValidRoles defines allowed user roles
var ValidRoles = map[string]bool{
	RoleRegular:   true,
	RoleModerator: true,
}
