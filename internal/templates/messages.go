package templates

import (
	"fmt"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

var instructionMessages = map[domain.Language]string{
	domain.LangItalian: "⚠️ Per ricevere il menu e le informazioni sul WiFi, invia '%s' seguito dal nome del ristorante.",
	domain.LangEnglish: "⚠️ To receive the menu and WiFi details, send '%s' followed by the restaurant name.",
	domain.LangGerman:  "⚠️ Um das Menü und die WLAN-Informationen zu erhalten, senden Sie '%s' gefolgt vom Namen des Restaurants.",
	domain.LangFrench:  "⚠️ Pour recevoir le menu et les informations WiFi, envoyez '%s' suivi du nom du restaurant.",
	domain.LangSpanish: "⚠️ Para recibir el menú y la información del WiFi, envía '%s' seguido del nombre del restaurante.",
}

var notFoundMessages = map[domain.Language]string{
	domain.LangItalian: "⚠️ Ristorante non trovato. Verifica il nome o scannerizza nuovamente il QR code.",
	domain.LangEnglish: "⚠️ Restaurant not found. Please verify the name or scan the QR code again.",
	domain.LangGerman:  "⚠️ Restaurant nicht gefunden. Überprüfen Sie den Namen oder scannen Sie den QR-Code erneut.",
	domain.LangFrench:  "⚠️ Restaurant non trouvé. Veuillez vérifier le nom ou scanner à nouveau le code QR.",
	domain.LangSpanish: "⚠️ Restaurante no encontrado. Verifica el nombre o escanea nuevamente el código QR.",
}

var customerNames = map[domain.Language]string{
	domain.LangItalian: "Cliente",
	domain.LangEnglish: "Customer",
	domain.LangGerman:  "Gast",
	domain.LangFrench:  "Client",
	domain.LangSpanish: "Cliente",
}

var wifiUnavailable = map[domain.Language]string{
	domain.LangItalian: "Non disponibile",
	domain.LangEnglish: "Not available",
	domain.LangGerman:  "Nicht verfügbar",
	domain.LangFrench:  "Non disponible",
	domain.LangSpanish: "No disponible",
}

// Instructions is sent when a message does not open with a greeting. greeting
// is the configured word the user should start with.
func Instructions(lang domain.Language, greeting string) string {
	return fmt.Sprintf(localized(instructionMessages, lang), greeting)
}

func NotFound(lang domain.Language) string {
	return localized(notFoundMessages, lang)
}

// CustomerName is the first name used when the sender has no profile name.
func CustomerName(lang domain.Language) string {
	return localized(customerNames, lang)
}

func WifiUnavailable(lang domain.Language) string {
	return localized(wifiUnavailable, lang)
}

func localized(table map[domain.Language]string, lang domain.Language) string {
	if s, ok := table[lang]; ok {
		return s
	}
	return table[domain.DefaultLanguage]
}
