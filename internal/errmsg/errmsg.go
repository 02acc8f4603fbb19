// Package errmsg turns backend error codes into text shown to users.
package errmsg

import "strings"

// Codes returned by the backend collaborator and the API.
const (
	InvalidCredentials = "invalid_credentials"
	EmailNotConfirmed  = "email_not_confirmed"
	UserAlreadyExists  = "user_already_exists"
	WeakPassword       = "weak_password"
	RateLimited        = "rate_limited"
	NetworkError       = "network_error"
	NotFound           = "not_found"
	ValidationFailed   = "validation_failed"
	Internal           = "internal_error"
)

var messages = map[string]map[string]string{
	"en": {
		InvalidCredentials: "Invalid email or password",
		EmailNotConfirmed:  "Please confirm your email address first",
		UserAlreadyExists:  "An account with this email already exists",
		WeakPassword:       "The password is too weak",
		RateLimited:        "Too many requests, please try again later",
		NetworkError:       "Network error, please check your connection",
		NotFound:           "Not found",
		ValidationFailed:   "Please check your input",
		Internal:           "Something went wrong on our side",
	},
	"de": {
		InvalidCredentials: "Ungültige E-Mail oder Passwort",
		EmailNotConfirmed:  "Bitte bestätige zuerst deine E-Mail-Adresse",
		UserAlreadyExists:  "Ein Konto mit dieser E-Mail existiert bereits",
		WeakPassword:       "Das Passwort ist zu schwach",
		RateLimited:        "Zu viele Anfragen, bitte versuche es später erneut",
		NetworkError:       "Netzwerkfehler, bitte prüfe deine Verbindung",
		NotFound:           "Nicht gefunden",
		ValidationFailed:   "Bitte überprüfe deine Eingaben",
		Internal:           "Bei uns ist etwas schiefgelaufen",
	},
}

var unknown = map[string]string{
	"en": "unknown error",
	"de": "Unbekannter Fehler",
}

// DefaultLang is used when a language has no table.
const DefaultLang = "en"

// Lookup returns the message for code in lang. Region suffixes such as
// "de-DE" and Accept-Language weights are ignored.
func Lookup(code, lang string) string {
	lang = normalizeLang(lang)
	if msg, ok := messages[lang][code]; ok {
		return msg
	}
	return unknown[lang]
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_,;"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := messages[lang]; !ok {
		return DefaultLang
	}
	return lang
}
