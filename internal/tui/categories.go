package tui

type Category struct {
	ID          string
	Name        string
	Description string
}

var Categories = []Category{
	{ID: "store", Name: "Store", Description: "Where templates and the token are kept"},
	{ID: "http", Name: "HTTP", Description: "Download timeout and user agent"},
	{ID: "cache", Name: "Cache", Description: "Archive cache, TTL and size limit"},
	{ID: "prompt", Name: "Prompt", Description: "Interactive prompt behavior"},
	{ID: "logging", Name: "Logging", Description: "Log level and format"},
}

func GetCategoryByID(id string) *Category {
	for i := range Categories {
		if Categories[i].ID == id {
			return &Categories[i]
		}
	}
	return nil
}

func GetCategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.Name
	}
	return names
}
