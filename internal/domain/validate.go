package domain

// Field bounds shared by the entities. Lengths are measured in bytes of the
// encoded form, matching the column sizes they map to.
const (
	nameMinLen  = 1
	nameMaxLen  = 255
	textMaxLen  = 3000
	imageMaxLen = 512000

	usernameMinLen = 4
	usernameMaxLen = 16
	passwordMinLen = 8
	passwordMaxLen = 24
)

// validLength reports whether the byte length of value is within [min, max].
func validLength(value string, min, max int) bool {
	return len(value) >= min && len(value) <= max
}

// nullableString maps the entities' empty-string zero value to a JSON null.
func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// asciiAlphanumeric reports whether value consists solely of ASCII
// letters and digits.
func asciiAlphanumeric(value string) bool {
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
