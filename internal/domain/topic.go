package domain

// Topic is a study topic grouping cards in the catalog.
type Topic struct {
	ID       string
	Name     string
	Category string
	Icon     string
	Color    string
}

// Topics is the fixed study-plan topic table. Card rows referencing an
// unknown topic id still load; they simply have no entry here.
var Topics = []Topic{
	{ID: "antro", Name: "Antropologia e Hamartiologia", Category: "1 - Doutrinas Teológicas", Icon: "person", Color: "blue"},
	{ID: "bib", Name: "Bibliologia", Category: "1 - Doutrinas Teológicas", Icon: "menu_book", Color: "blue"},
	{ID: "theo", Name: "Doutrina de Deus", Category: "1 - Doutrinas Teológicas", Icon: "psychology_alt", Color: "blue"},
	{ID: "cris", Name: "Cristologia", Category: "1 - Doutrinas Teológicas", Icon: "redeem", Color: "blue"},
	{ID: "pneu", Name: "Pneumatologia", Category: "1 - Doutrinas Teológicas", Icon: "air", Color: "blue"},
	{ID: "sote", Name: "Soteriologia", Category: "1 - Doutrinas Teológicas", Icon: "auto_awesome", Color: "blue"},
	{ID: "ecles", Name: "Eclesiologia", Category: "1 - Doutrinas Teológicas", Icon: "church", Color: "blue"},
	{ID: "escat", Name: "Escatologia", Category: "1 - Doutrinas Teológicas", Icon: "hourglass_empty", Color: "blue"},
	{ID: "rel", Name: "Ética Pastoral e Casuística", Category: "2 - Ética Pastoral e Casuística", Icon: "groups", Color: "emerald"},
	{ID: "hist_orig", Name: "Origem e História dos Batistas", Category: "3 - Origem e História dos Batistas", Icon: "history_edu", Color: "purple"},
}

// TopicByID looks up a topic in the fixed table.
func TopicByID(id string) (Topic, bool) {
	for _, t := range Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}
