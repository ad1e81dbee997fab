package password

import (
	"strings"

	"github.com/nbutton23/zxcvbn-go/frequency"
)

// Contraseñas frecuentes en el mercado local que no aparecen en la lista general.
var regionalPasswords = []string{
	"nairobi", "nairobi123", "kenya123", "kenya2020", "kenya2024", "mombasa", "mombasa1", "kisumu123",
	"jambo123", "hakunamatata", "harambee", "safaricom", "mpesa123", "biashara", "biashara123",
}

// commonPasswords lista de frecuencia de contraseñas filtradas de zxcvbn más las regionales.
// Las entradas ya vienen en minúsculas.
var commonPasswords = func() map[string]struct{} {
	list := frequency.Lists["Passwords"].List
	m := make(map[string]struct{}, len(list)+len(regionalPasswords))
	for _, p := range list {
		m[strings.ToLower(p)] = struct{}{}
	}
	for _, p := range regionalPasswords {
		m[p] = struct{}{}
	}
	return m
}()

// IsCommon indica si la contraseña está en la lista de contraseñas comunes (sin distinguir mayúsculas).
func IsCommon(pw string) bool {
	_, ok := commonPasswords[strings.ToLower(strings.TrimSpace(pw))]
	return ok
}

// CommonCount tamaño de la lista cargada.
func CommonCount() int { return len(commonPasswords) }
