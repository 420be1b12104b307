package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/sancris/concierge/internal/i18n"
	"github.com/sancris/concierge/internal/places"
	"github.com/sancris/concierge/internal/store"
	"github.com/sancris/concierge/internal/weather"
)

var fieldLabels = map[string]map[string]string{
	i18n.LangEN: {
		"price":    "Price",
		"address":  "Address",
		"phone":    "Phone",
		"website":  "Website",
		"schedule": "Schedule",
	},
	i18n.LangES: {
		"price":    "Precio",
		"address":  "Dirección",
		"phone":    "Teléfono",
		"website":  "Sitio web",
		"schedule": "Horario",
	},
}

// field renders one labeled card line, or nothing when the value is empty.
func field(lang, key, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return fmt.Sprintf("\n<b>%s:</b> %s", fieldLabels[i18n.Normalize(lang)][key], html.EscapeString(value))
}

func cardHeader(name, description string) string {
	card := "<b>" + html.EscapeString(strings.TrimSpace(name)) + "</b>"
	if d := strings.TrimSpace(description); d != "" {
		card += "\n\n" + html.EscapeString(d)
	}
	return card
}

func cardFooter(extra string) string {
	if e := strings.TrimSpace(extra); e != "" {
		return "\n\n<i>" + html.EscapeString(e) + "</i>"
	}
	return ""
}

func formatTour(lang string, t store.Tour) string {
	return cardHeader(t.Name, t.Description) +
		field(lang, "price", t.Price) +
		cardFooter(t.ExtraInfo)
}

func formatLodging(lang string, l store.Lodging) string {
	return cardHeader(l.Name, l.Description) +
		field(lang, "address", l.Address) +
		field(lang, "phone", l.Phone) +
		field(lang, "website", l.Website) +
		cardFooter(l.ExtraInfo)
}

func formatAttraction(lang string, a store.Attraction) string {
	return cardHeader(a.Name, a.ShortInfo) +
		field(lang, "address", a.Address) +
		field(lang, "schedule", a.Schedule) +
		cardFooter(a.FullInfo)
}

func formatRestaurant(lang string, r store.Restaurant) string {
	return cardHeader(r.Name, r.Description) +
		field(lang, "address", r.Address) +
		field(lang, "phone", r.Phone) +
		field(lang, "website", r.Website) +
		cardFooter(r.ExtraInfo)
}

// formatForecast renders the next forecast points as a compact card.
func formatForecast(lang string, fc weather.Forecast) string {
	header := "Weather for %s"
	if i18n.Normalize(lang) == i18n.LangES {
		header = "Clima en %s"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>"+header+"</b>\n", html.EscapeString(fc.City))
	points := fc.Points
	if len(points) > 5 {
		points = points[:5]
	}
	for _, p := range points {
		fmt.Fprintf(&sb, "\n<b>%s</b>  %.0f°C, %s",
			p.Time.Format("Mon 15:04"), p.TempC, html.EscapeString(p.Description))
	}
	return sb.String()
}

// formatPlacesPage renders one page of search results, numbering continued
// from previous pages and framed with the user's own query wording.
func formatPlacesPage(lang, query string, page []places.Venue, start int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, i18n.T(lang, "places_header"), html.EscapeString(query))
	for i, v := range page {
		fmt.Fprintf(&sb, "\n\n<b>%d. %s</b>", start+i+1, html.EscapeString(v.Name))
		if v.Address != "" {
			sb.WriteString("\n📍 " + html.EscapeString(v.Address))
		}
		if v.Rating > 0 {
			fmt.Fprintf(&sb, "\n⭐ %.1f", v.Rating)
		}
		if v.OpenNow != nil {
			key := "closed"
			if *v.OpenNow {
				key = "open_now"
			}
			sb.WriteString("\n🕐 " + i18n.T(lang, key))
		}
	}
	return sb.String()
}
