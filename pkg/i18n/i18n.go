package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type entry struct {
	en, de string
}

// Keys are shared with the settings and station screens
var messages = map[string]entry{
	"app.title":    {"NextUp", "NextUp"},
	"app.subtitle": {"Ready to go?", "Bereit zu gehen?"},
	"search":       {"Search", "Suchen"},
	"settings":     {"Settings", "Einstellungen"},

	"finding.stations":        {"Finding nearby stations...", "Suche nahegelegene Stationen..."},
	"location.required":       {"Location Access Required", "Standortzugriff erforderlich"},
	"location.unavailable":    {"Your location is not available right now.", "Ihr Standort ist derzeit nicht verfügbar."},
	"try.again":               {"Try Again", "Erneut versuchen"},
	"favorite.stations":       {"Favorite Stations", "Lieblingsstationen"},
	"nearby.stations":         {"Nearby Stations", "Nahegelegene Stationen"},
	"no.stations.found":       {"No stations found", "Keine Stationen gefunden"},
	"no.stations.description": {"No transport stations found within %s of your location. Try searching for a specific station.", "Keine Verkehrsstationen im Umkreis von %s gefunden. Versuchen Sie, nach einer bestimmten Station zu suchen."},
	"search.stations":         {"Search Stations", "Stationen suchen"},

	"departures.for":            {"Departures for", "Abfahrten für"},
	"platform":                  {"Platform", "Gleis"},
	"loading.departures":        {"Loading departures...", "Lade Abfahrten..."},
	"no.departures":             {"No departures found", "Keine Abfahrten gefunden"},
	"no.departures.description": {"No upcoming departures available at this time.", "Derzeit sind keine bevorstehenden Abfahrten verfügbar."},
	"back":                      {"Back", "Zurück"},
	"now":                       {"Now", "Jetzt"},
	"minutes":                   {"%dmin", "%dmin"},
	"refresh":                   {"Refresh", "Aktualisieren"},

	"route.stops.timing": {"Route stops and timing", "Routenstopps und Zeiten"},
	"loading.route":      {"Loading route information...", "Lade Routeninformationen..."},
	"no.route.info":      {"No route information available for this departure.", "Keine Routeninformationen für diese Abfahrt verfügbar."},
	"delay":              {"delay", "Verspätung"},

	"search.stations.title":     {"Search Stations", "Stationen suchen"},
	"search.placeholder":        {"Search for a station...", "Nach einer Station suchen..."},
	"searching":                 {"Searching...", "Suche..."},
	"search.failed":             {"Search failed", "Suche fehlgeschlagen"},
	"search.failed.description": {"Unable to search stations. Please try again.", "Stationen können nicht gesucht werden. Bitte versuchen Sie es erneut."},
	"search.no.results":         {"No stations found", "Keine Stationen gefunden"},
	"search.try.different":      {"Try searching with a different term", "Versuchen Sie es mit einem anderen Suchbegriff"},

	"favorite.add":     {"Add to favorites", "Zu Favoriten hinzufügen"},
	"favorite.remove":  {"Remove from favorites", "Aus Favoriten entfernen"},
	"favorite.added":   {"%s added to favorites", "%s zu Favoriten hinzugefügt"},
	"favorite.removed": {"%s removed from favorites", "%s aus Favoriten entfernt"},

	"settings.title":               {"Settings", "Einstellungen"},
	"settings.description":         {"Customize your app preferences", "Passen Sie Ihre App-Einstellungen an"},
	"settings.saved":               {"Settings saved", "Einstellungen gespeichert"},
	"dark.mode":                    {"Dark Mode", "Dunkler Modus"},
	"dark.mode.description":        {"Switch to a darker theme", "Zu einem dunkleren Design wechseln"},
	"language":                     {"Language", "Sprache"},
	"language.description":         {"Switch between English and German", "Zwischen Englisch und Deutsch wechseln"},
	"location.consent":             {"Allow location lookup", "Standortabfrage erlauben"},
	"location.consent.description": {"Use your network location to find nearby stations", "Netzwerkstandort zur Suche nahegelegener Stationen verwenden"},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, m := range messages {
		_ = b.SetString(language.English, key, m.en)
		_ = b.SetString(language.German, key, m.de)
	}
	return b
}

// Translator renders UI strings in English or German
type Translator struct {
	german  bool
	printer *message.Printer
}

func New(german bool) *Translator {
	tag := language.English
	if german {
		tag = language.German
	}
	return &Translator{german: german, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

func (t *Translator) German() bool { return t.german }

// T returns the translation for key, or the key itself when there is none
func (t *Translator) T(key string) string {
	if _, ok := messages[key]; !ok {
		return key
	}
	return t.printer.Sprintf(key)
}

// Tf formats the translation for key with args
func (t *Translator) Tf(key string, args ...any) string {
	if _, ok := messages[key]; !ok {
		return key
	}
	return t.printer.Sprintf(key, args...)
}

// Keys lists every known message key
func Keys() []string {
	keys := make([]string, 0, len(messages))
	for k := range messages {
		keys = append(keys, k)
	}
	return keys
}
