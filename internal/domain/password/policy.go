// Package password valida la fortaleza de contraseñas antes de hashearlas.
//
// Reglas: longitud mínima, no solo dígitos, no común y no demasiado parecida
// a los datos del propio usuario (email, nombre, apellido).
package password

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// MinLength longitud mínima aceptada.
	MinLength = 8
	// MaxSimilarity umbral (0..1) a partir del cual la contraseña se considera derivada de un atributo.
	MaxSimilarity = 0.7
)

// Attributes datos del usuario contra los que se compara la contraseña.
type Attributes struct {
	Email     string
	FirstName string
	LastName  string
}

var (
	folder    = cases.Fold()
	nonWord   = regexp.MustCompile(`\W+`)
	allDigits = regexp.MustCompile(`^[0-9]+$`)
)

// Validate devuelve todos los mensajes de las reglas que fallan (vacío = contraseña aceptada).
func Validate(pw string, attrs Attributes) []string {
	var msgs []string
	if len([]rune(pw)) < MinLength {
		msgs = append(msgs, fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinLength))
	}
	if field := similarAttribute(pw, attrs); field != "" {
		msgs = append(msgs, fmt.Sprintf("The password is too similar to the %s.", field))
	}
	if IsCommon(pw) {
		msgs = append(msgs, "This password is too common.")
	}
	if allDigits.MatchString(pw) {
		msgs = append(msgs, "This password is entirely numeric.")
	}
	return msgs
}

func normalize(s string) string {
	return folder.String(norm.NFKC.String(strings.TrimSpace(s)))
}

// similarAttribute devuelve el nombre legible del primer atributo demasiado parecido.
func similarAttribute(pw string, attrs Attributes) string {
	p := normalize(pw)
	if p == "" {
		return ""
	}
	checks := []struct {
		label string
		value string
	}{
		{"email address", attrs.Email},
		{"first name", attrs.FirstName},
		{"last name", attrs.LastName},
	}
	for _, c := range checks {
		v := normalize(c.value)
		if v == "" {
			continue
		}
		parts := append(nonWord.Split(v, -1), v)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if quickRatio(p, part) >= MaxSimilarity {
				return c.label
			}
		}
	}
	return ""
}

// quickRatio cota superior de similitud: 2*M/T con M = caracteres en común (multiconjunto).
func quickRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int, len(rb))
	for _, r := range rb {
		avail[r]++
	}
	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}
