package bot

import (
	"fmt"
	"strconv"

	"github.com/sancris/concierge/internal/i18n"
	"github.com/sancris/concierge/internal/store"
	"github.com/sancris/concierge/internal/telegram"
)

// menuKeyboard lays the persistent menu out in three rows of 3, 2, and 3
// labels.
func menuKeyboard(lang string) [][]string {
	labels := i18n.MenuLabels(lang)
	return [][]string{
		labels[0:3],
		labels[3:5],
		labels[5:8],
	}
}

func languageKeyboard() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{{
		{Text: "English 🇬🇧", Data: "lang:en"},
		{Text: "Español 🇪🇸", Data: "lang:es"},
	}}
}

func ratingKeyboard() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{{
		{Text: "👍", Data: "rate:up"},
		{Text: "👎", Data: "rate:down"},
	}}
}

// venueKeyboard builds one button per venue, one per row, with the first
// three starred. prefix is the callback namespace ("tour", "accom", ...).
func venueKeyboard(prefix string, refs []store.Ref) [][]telegram.InlineButton {
	rows := make([][]telegram.InlineButton, 0, len(refs))
	for i, ref := range refs {
		label := ref.Name
		if i < 3 {
			label = "⭐ " + label
		}
		rows = append(rows, []telegram.InlineButton{{
			Text: label,
			Data: fmt.Sprintf("%s:%s", prefix, strconv.FormatInt(ref.ID, 10)),
		}})
	}
	return rows
}
