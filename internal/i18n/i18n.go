// Package i18n holds the bot's user-facing message catalog.
//
// Unlike a general localization framework, the catalog is a static two-language
// table: every string the bot can say exists in English and Spanish. Lookup is
// by explicit language code so concurrent chats in different languages never
// share state.
package i18n

import "strings"

// Supported languages.
const (
	LangEN = "en"
	LangES = "es"
)

// Normalize maps common language spellings to a supported code.
// Unknown values fall back to English.
func Normalize(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "es", "esp", "español", "espanol", "spanish":
		return LangES
	default:
		return LangEN
	}
}

// T returns the message for key in the given language, falling back to
// English, then to the key itself so a missing entry stays visible.
func T(lang, key string) string {
	lang = Normalize(lang)
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[LangEN][key]; ok {
		return msg
	}
	return key
}

var messages = map[string]map[string]string{
	LangEN: {
		"choose_language":      "Welcome! Please choose your language:",
		"language_set":         "Language set to English.",
		"session_cleared":      "Session data cleared. Please type /start to begin anew.",
		"generic_error":        "An unexpected error occurred. Please try again later.",
		"no_answer":            "I'm sorry, I couldn't generate an answer at the moment.",
		"invalid_selection":    "Invalid selection. Please use the menu buttons.",
		"no_tours":             "No tour data found in the database.",
		"no_accommodation":     "No accommodation data found in the database.",
		"no_attractions":       "No attractions data found in the database.",
		"no_restaurants":       "No restaurant data found in the database.",
		"no_advices":           "No advices data found in the database.",
		"no_faq":               "No FAQ data found in the database.",
		"details_not_found":    "Details not found.",
		"select_tour":          "Select a tour to get more details.",
		"select_accom":         "Select an accommodation option to get more details.",
		"select_attraction":    "Select an attraction to get more details.",
		"select_restaurant":    "Select a restaurant to get more details.",
		"events":               "You can view upcoming events on our Instagram page:\nhttps://www.instagram.com/events.sancristobal/",
		"places_header":        "Here is what I found for \"%s\":",
		"open_now":             "Open now",
		"closed":               "Closed",
		"places_more_hint":     "Type <i>more</i> to see further results.",
		"no_more_results":      "No more results for this search.",
		"no_places_found":      "I couldn't find any places matching your request.",
		"weather_failed":       "I couldn't fetch the forecast right now. Please try again later.",
		"nothing_to_translate": "There is no previous answer to translate yet.",
		"rating_thanks":        "Thanks for your feedback!",
	},
	LangES: {
		"choose_language":      "¡Bienvenido! Por favor elige tu idioma:",
		"language_set":         "Idioma configurado a Español.",
		"session_cleared":      "Datos de la sesión borrados. Escribe /start para comenzar de nuevo.",
		"generic_error":        "Ocurrió un error inesperado. Inténtalo de nuevo más tarde.",
		"no_answer":            "Lo siento, no pude generar una respuesta en este momento.",
		"invalid_selection":    "Selección inválida. Usa los botones del menú.",
		"no_tours":             "No se encontraron tours en la base de datos.",
		"no_accommodation":     "No se encontró alojamiento en la base de datos.",
		"no_attractions":       "No se encontraron atracciones en la base de datos.",
		"no_restaurants":       "No se encontraron restaurantes en la base de datos.",
		"no_advices":           "No se encontraron consejos en la base de datos.",
		"no_faq":               "No se encontraron preguntas frecuentes en la base de datos.",
		"details_not_found":    "No se encontraron los detalles.",
		"select_tour":          "Selecciona un tour para ver más detalles.",
		"select_accom":         "Selecciona un alojamiento para ver más detalles.",
		"select_attraction":    "Selecciona una atracción para ver más detalles.",
		"select_restaurant":    "Selecciona un restaurante para ver más detalles.",
		"events":               "Puedes ver los próximos eventos en nuestra página de Instagram:\nhttps://www.instagram.com/events.sancristobal/",
		"places_header":        "Esto es lo que encontré para \"%s\":",
		"open_now":             "Abierto ahora",
		"closed":               "Cerrado",
		"places_more_hint":     "Escribe <i>más</i> para ver más resultados.",
		"no_more_results":      "No hay más resultados para esta búsqueda.",
		"no_places_found":      "No encontré lugares que coincidan con tu búsqueda.",
		"weather_failed":       "No pude obtener el pronóstico en este momento. Inténtalo más tarde.",
		"nothing_to_translate": "Todavía no hay una respuesta anterior para traducir.",
		"rating_thanks":        "¡Gracias por tu opinión!",
	},
}

// Greetings returns the rotating greeting templates for a language. The %s
// placeholder receives the user's first name.
func Greetings(lang string) []string {
	if Normalize(lang) == LangES {
		return []string{
			"¡Hola %s, bienvenido a tu conserje personal!",
			"¡Hola %s! ¡Qué gusto verte por San Cristóbal!",
			"Hola %s, ¿listo para descubrir lo mejor de San Cristóbal?",
			"Saludos %s, ¡exploremos la ciudad juntos!",
		}
	}
	return []string{
		"Hey %s, welcome to your personal concierge!",
		"Hello %s! Great to see you here at San Cristóbal!",
		"Hi %s, ready to explore the best of San Cristóbal?",
		"Greetings %s, let's discover the city together!",
	}
}

// Welcome returns the long /start message for a language.
func Welcome(lang string) string {
	if Normalize(lang) == LangES {
		return "Soy tu conserje impulsado por AI para San Cristóbal de las Casas.\n\n" +
			"Este bot te ayudará a encontrar información detallada sobre tours, alojamiento, atracciones, " +
			"restaurantes, consejos y eventos en la ciudad. Puedes interactuar mediante los comandos del menú " +
			"o escribiendo directamente tu consulta. Por ejemplo:\n" +
			"• 'Estoy de viaje con mi pareja y busco un hotel tranquilo fuera del centro.'\n" +
			"• 'Viajamos en familia; ¿qué actividades recomiendas para niños?'\n\n" +
			"Para ver ejemplos de uso, visita: <a href=\"https://example.com/usage-guide\">Usage Guide</a>\n\n" +
			"¡Estoy aquí para ayudarte a descubrir lo mejor de San Cristóbal!"
	}
	return "I'm your AI-powered concierge for San Cristóbal de las Casas.\n\n" +
		"This bot is designed to provide you with detailed information on tours, accommodation, attractions, " +
		"restaurants, advices, and events in the city. You can interact with the bot using the menu commands " +
		"or simply type your query. For example:\n" +
		"• 'I'm traveling with my partner and looking for a quiet hotel away from the center.'\n" +
		"• 'We're on a family trip; what activities do you recommend for children?'\n\n" +
		"For usage examples, visit: <a href=\"https://example.com/usage-guide\">Usage Guide</a>\n\n" +
		"I look forward to helping you explore the city!"
}

// MenuLabels returns the persistent menu labels for a language, in display
// order. The classifier treats an exact (case-insensitive) match against any
// of these as a menu command.
func MenuLabels(lang string) []string {
	if Normalize(lang) == LangES {
		return []string{"Tours", "Alojamiento", "Atracciones", "Restaurantes", "Consejos", "FAQ", "Eventos", "🔴 Reset"}
	}
	return []string{"Tours", "Accommodation", "Attractions", "Restaurants", "Advices", "FAQ", "Events", "🔴 Reset"}
}
