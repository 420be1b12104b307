package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// The venue tables carry bilingual columns (name_en/name_es and so on); the
// suffix picks the column set for the session language.
func colSuffix(lang string) string {
	if lang == "es" {
		return "_es"
	}
	return "_en"
}

// Ref is a venue list entry: just enough for an inline keyboard row.
type Ref struct {
	ID   int64
	Name string
}

// Tour is the detail card for one tour.
type Tour struct {
	Name        string
	Description string
	Price       string
	ExtraInfo   string
	Image       string
}

// Lodging is the detail card for one accommodation option.
type Lodging struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Website     string
	ExtraInfo   string
	Image       string
}

// Attraction is the detail card for one attraction.
type Attraction struct {
	Name      string
	Address   string
	ShortInfo string
	Schedule  string
	FullInfo  string
	Image     string
}

// Restaurant is the detail card for one restaurant.
type Restaurant struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Website     string
	ExtraInfo   string
	Image       string
}

// Advice is one entry of the advices section.
type Advice struct {
	Category string
	Text     string
}

// FAQEntry is one question/answer pair.
type FAQEntry struct {
	Question string
	Answer   string
}

func (s *Store) listRefs(ctx context.Context, table, lang string) ([]Ref, error) {
	q := fmt.Sprintf(`SELECT id, name%s FROM %s ORDER BY id`, colSuffix(lang), table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var refs []Ref
	for rows.Next() {
		var r Ref
		var name sql.NullString
		if err := rows.Scan(&r.ID, &name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		r.Name = name.String
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// ListTours returns id/name pairs for the tours section.
func (s *Store) ListTours(ctx context.Context, lang string) ([]Ref, error) {
	return s.listRefs(ctx, "tours", lang)
}

// ListLodgings returns id/name pairs for the accommodation section.
func (s *Store) ListLodgings(ctx context.Context, lang string) ([]Ref, error) {
	return s.listRefs(ctx, "accommodation", lang)
}

// ListAttractions returns id/name pairs for the attractions section.
func (s *Store) ListAttractions(ctx context.Context, lang string) ([]Ref, error) {
	return s.listRefs(ctx, "attractions", lang)
}

// ListRestaurants returns id/name pairs for the restaurants section.
func (s *Store) ListRestaurants(ctx context.Context, lang string) ([]Ref, error) {
	return s.listRefs(ctx, "restaurants", lang)
}

// Tour fetches one tour's detail card. Returns ErrNotFound when the id does
// not exist.
func (s *Store) Tour(ctx context.Context, lang string, id int64) (Tour, error) {
	sx := colSuffix(lang)
	q := fmt.Sprintf(
		`SELECT name%[1]s, description%[1]s, price, extra_info%[1]s, mainimage FROM tours WHERE id = ?`, sx)
	var t Tour
	var name, desc, price, extra, image sql.NullString
	err := s.db.QueryRowContext(ctx, q, id).Scan(&name, &desc, &price, &extra, &image)
	if errors.Is(err, sql.ErrNoRows) {
		return Tour{}, ErrNotFound
	}
	if err != nil {
		return Tour{}, fmt.Errorf("get tour: %w", err)
	}
	t.Name, t.Description, t.Price, t.ExtraInfo, t.Image =
		name.String, desc.String, price.String, extra.String, image.String
	return t, nil
}

// Lodging fetches one accommodation detail card.
func (s *Store) Lodging(ctx context.Context, lang string, id int64) (Lodging, error) {
	sx := colSuffix(lang)
	q := fmt.Sprintf(
		`SELECT name%[1]s, description%[1]s, address%[1]s, phone, website%[1]s, extra_info%[1]s, mainimage%[1]s
		 FROM accommodation WHERE id = ?`, sx)
	var l Lodging
	var name, desc, addr, phone, web, extra, image sql.NullString
	err := s.db.QueryRowContext(ctx, q, id).Scan(&name, &desc, &addr, &phone, &web, &extra, &image)
	if errors.Is(err, sql.ErrNoRows) {
		return Lodging{}, ErrNotFound
	}
	if err != nil {
		return Lodging{}, fmt.Errorf("get accommodation: %w", err)
	}
	l.Name, l.Description, l.Address, l.Phone, l.Website, l.ExtraInfo, l.Image =
		name.String, desc.String, addr.String, phone.String, web.String, extra.String, image.String
	return l, nil
}

// Attraction fetches one attraction detail card.
func (s *Store) Attraction(ctx context.Context, lang string, id int64) (Attraction, error) {
	sx := colSuffix(lang)
	q := fmt.Sprintf(
		`SELECT name%[1]s, address%[1]s, shortinfo%[1]s, mainimage, date_time, fullinfo%[1]s
		 FROM attractions WHERE id = ?`, sx)
	var a Attraction
	var name, addr, short, image, sched, full sql.NullString
	err := s.db.QueryRowContext(ctx, q, id).Scan(&name, &addr, &short, &image, &sched, &full)
	if errors.Is(err, sql.ErrNoRows) {
		return Attraction{}, ErrNotFound
	}
	if err != nil {
		return Attraction{}, fmt.Errorf("get attraction: %w", err)
	}
	a.Name, a.Address, a.ShortInfo, a.Image, a.Schedule, a.FullInfo =
		name.String, addr.String, short.String, image.String, sched.String, full.String
	return a, nil
}

// Restaurant fetches one restaurant detail card.
func (s *Store) Restaurant(ctx context.Context, lang string, id int64) (Restaurant, error) {
	sx := colSuffix(lang)
	q := fmt.Sprintf(
		`SELECT name%[1]s, description%[1]s, address%[1]s, phone, website%[1]s, extra_info%[1]s, mainimage%[1]s
		 FROM restaurants WHERE id = ?`, sx)
	var r Restaurant
	var name, desc, addr, phone, web, extra, image sql.NullString
	err := s.db.QueryRowContext(ctx, q, id).Scan(&name, &desc, &addr, &phone, &web, &extra, &image)
	if errors.Is(err, sql.ErrNoRows) {
		return Restaurant{}, ErrNotFound
	}
	if err != nil {
		return Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	r.Name, r.Description, r.Address, r.Phone, r.Website, r.ExtraInfo, r.Image =
		name.String, desc.String, addr.String, phone.String, web.String, extra.String, image.String
	return r, nil
}

// Advices returns the advices section in display order.
func (s *Store) Advices(ctx context.Context, lang string) ([]Advice, error) {
	q := fmt.Sprintf(`SELECT category%[1]s, advice_text%[1]s FROM advices ORDER BY id`, colSuffix(lang))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list advices: %w", err)
	}
	defer rows.Close()

	var out []Advice
	for rows.Next() {
		var cat, text sql.NullString
		if err := rows.Scan(&cat, &text); err != nil {
			return nil, fmt.Errorf("scan advice: %w", err)
		}
		out = append(out, Advice{Category: cat.String, Text: text.String})
	}
	return out, rows.Err()
}

// FAQ returns the FAQ section in display order.
func (s *Store) FAQ(ctx context.Context, lang string) ([]FAQEntry, error) {
	q := fmt.Sprintf(`SELECT question%[1]s, answer%[1]s FROM faq ORDER BY id`, colSuffix(lang))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list faq: %w", err)
	}
	defer rows.Close()

	var out []FAQEntry
	for rows.Next() {
		var question, answer sql.NullString
		if err := rows.Scan(&question, &answer); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		out = append(out, FAQEntry{Question: question.String, Answer: answer.String})
	}
	return out, rows.Err()
}

// defaultBanners backs the banners table when a section row is missing or
// empty.
var defaultBanners = map[string]string{
	"tours":         "https://example.com/default_tours_banner.jpg",
	"restaurants":   "https://example.com/default_restaurants_banner.jpg",
	"accommodation": "https://example.com/default_accommodation_banner.jpg",
	"attractions":   "https://example.com/default_attractions_banner.jpg",
	"events":        "https://example.com/default_events_banner.jpg",
}

// Banner returns the banner URL for a section, falling back to the default
// when no row exists or the stored URL is blank. Returns "" for sections with
// neither.
func (s *Store) Banner(ctx context.Context, section string) string {
	var url sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT banner_url FROM banners WHERE section = ?`, section).Scan(&url)
	if err == nil && url.String != "" {
		return url.String
	}
	return defaultBanners[section]
}
